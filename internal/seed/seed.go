// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"quorum/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultPassword is the plaintext password for every seeded account.
const DefaultPassword = "password123"

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := createUsers(db, f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	posts, err := createPosts(db, f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	replyCount, err := createReplies(db, f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}
	log.Printf("%d replies created", replyCount)

	log.Println("Database seeding completed")
	return nil
}

// clearData removes all seedable rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.Reply{}, &models.Post{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, f *Factory, count int) ([]*models.User, error) {
	// Hash once; per-user hashing makes large seeds painfully slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := f.BuildUser(string(hash))
		if err := db.Create(user).Error; err != nil {
			// Fake usernames can collide; skip and keep going.
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users could be created")
	}
	return users, nil
}

func createPosts(db *gorm.DB, f *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.rnd.Intn(len(users))]
		post := f.BuildPost(author, "")
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createReplies(db *gorm.DB, f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		for i := 0; i < f.rnd.Intn(5); i++ {
			author := users[f.rnd.Intn(len(users))]
			reply := f.BuildReply(author, post)
			if err := db.Create(reply).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
