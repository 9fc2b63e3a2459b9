// Package bootstrap wires process-level dependencies (database, cache,
// optional development data) before the HTTP layer starts.
package bootstrap

import (
	"fmt"
	"strings"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/models"
	"quorum/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDevData populates an empty development database with fake
	// forum content so the API is browsable immediately.
	SeedDevData bool
}

// InitRuntime connects to the database and Redis and optionally seeds
// development data. The Redis client may be nil when the cache is
// unreachable; callers treat that as cache-off, not fatal.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDevData {
		if err := seedDevData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("development seeding failed: %w", err)
		}
	}

	return db, r, nil
}

// seedDevData seeds only in development and only when the forum is empty,
// so restarts never pile duplicate fake content on top of real rows.
func seedDevData(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	return seed.Seed(db, seed.Options{NumUsers: 10, NumPosts: 40})
}
