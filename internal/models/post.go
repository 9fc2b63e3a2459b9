// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// AllowedCategories is the fixed set of post categories.
var AllowedCategories = []string{"JavaScript", "React", "Node.js", "Next.js"}

// NormalizeCategory matches name against the allowed set, ignoring case.
// It returns the canonical spelling and whether the name is valid.
func NormalizeCategory(name string) (string, bool) {
	for _, c := range AllowedCategories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// IsValidCategory reports whether category is an exact member of the allowed set.
func IsValidCategory(category string) bool {
	for _, c := range AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Post represents a forum post in one of the fixed categories.
// Replies are derived from Reply.PostID rather than a stored id list, so the
// post/reply relationship cannot dangle on either side.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"not null;index" json:"category"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Replies   []Reply   `gorm:"foreignKey:PostID" json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
