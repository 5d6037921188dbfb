package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pimsync/connector/internal/domain/mapping"
)

// setupMappingTestDB creates an in-memory SQLite database for testing
func setupMappingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE mappings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			payload TEXT NOT NULL DEFAULT '{}',
			priority INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormMappingRepository(t *testing.T) {
	repo := NewGormMappingRepository(setupMappingTestDB(t))

	t.Run("missing mapping returns ErrMappingNotFound", func(t *testing.T) {
		_, err := repo.Find(context.Background(), "attributes")
		assert.ErrorIs(t, err, mapping.ErrMappingNotFound)
	})

	t.Run("round-trips a mapping", func(t *testing.T) {
		c := mapping.NewCollection(5)
		c.Add("color", "colour")
		c.Add("size", "shoe_size")
		require.NoError(t, repo.Save(context.Background(), "attributes", c))

		loaded, err := repo.Find(context.Background(), "attributes")
		require.NoError(t, err)
		assert.Equal(t, "colour", loaded.TargetFor("color"))
		assert.Equal(t, "shoe_size", loaded.TargetFor("size"))
		assert.Equal(t, 5, loaded.Priority())
	})

	t.Run("save replaces the previous version", func(t *testing.T) {
		c := mapping.NewCollection(5)
		c.Add("color", "farbe")
		require.NoError(t, repo.Save(context.Background(), "attributes", c))

		loaded, err := repo.Find(context.Background(), "attributes")
		require.NoError(t, err)
		assert.Equal(t, "farbe", loaded.TargetFor("color"))
		assert.False(t, loaded.HasSource("size"))
	})

	t.Run("legacy scalar payload decodes to empty mapping", func(t *testing.T) {
		require.NoError(t, repo.db.Exec(`
			INSERT INTO mappings (id, name, payload, priority, created_at, updated_at)
			VALUES ('00000000-0000-0000-0000-000000000001', 'legacy', '""', 0,
				'2024-01-01', '2024-01-01')
		`).Error)

		loaded, err := repo.Find(context.Background(), "legacy")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
	})
}
