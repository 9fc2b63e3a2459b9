// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// MaxBioLength is the longest bio a user profile may carry.
const MaxBioLength = 150

// User represents a registered forum user.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// PublicProfile is the subset of a user visible to anyone by username.
type PublicProfile struct {
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the publicly visible view of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Username:  u.Username,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

// Profile is the authenticated caller's own view of their account.
type Profile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnProfile returns the caller-facing profile view of the user.
func (u *User) OwnProfile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}
