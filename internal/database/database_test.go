package database

import (
	"testing"

	"quorum/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults without erroring.
	assert.NoError(t, configurePool(db, &config.Config{}))
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{"hybrid dev", &config.Config{DBSchemaMode: "hybrid", Env: "development"}, true, true, false},
		{"hybrid prod", &config.Config{DBSchemaMode: "hybrid", Env: "production"}, true, false, false},
		{"sql only", &config.Config{DBSchemaMode: "sql", Env: "production"}, true, false, false},
		{"auto dev", &config.Config{DBSchemaMode: "auto", Env: "development"}, false, true, false},
		{"auto prod refused", &config.Config{DBSchemaMode: "auto", Env: "production"}, false, false, true},
		{"auto prod allowed", &config.Config{DBSchemaMode: "auto", Env: "production", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"empty mode defaults to hybrid", &config.Config{Env: "test"}, true, true, false},
		{"unknown mode", &config.Config{DBSchemaMode: "bogus", Env: "test"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}

func TestRegisteredMigrationsAreOrdered(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].Version, ms[i].Version)
	}
	for _, m := range ms {
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript)
	}
}
