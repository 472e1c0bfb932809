package synclog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studyhall/companion/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.SyncLogEntry{})
	require.NoError(t, err)

	return db
}

func TestRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	entry := &entities.SyncLogEntry{
		Type:     entities.SyncLogTypeProgress,
		Status:   entities.SyncLogStatusSuccess,
		RecordID: "abc-123",
		Details:  "lesson L1 delivered",
	}

	err := repo.Append(entry)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRepository_Recent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	for i := 0; i < 10; i++ {
		entry := &entities.SyncLogEntry{
			Type:      entities.SyncLogTypeQuiz,
			Status:    entities.SyncLogStatusFailed,
			Details:   "network error",
			CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.Append(entry))
	}

	t.Run("bounded to limit", func(t *testing.T) {
		entries, err := repo.Recent(5)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})

	t.Run("most recent first", func(t *testing.T) {
		entries, err := repo.Recent(10)
		require.NoError(t, err)
		for i := 1; i < len(entries); i++ {
			assert.True(t, !entries[i-1].CreatedAt.Before(entries[i].CreatedAt))
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		entries, err := repo.Recent(0)
		require.NoError(t, err)
		assert.Len(t, entries, 10)
	})
}

func TestRepository_DeleteOldEntries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()

	old := &entities.SyncLogEntry{
		Type:      entities.SyncLogTypeProgress,
		Status:    entities.SyncLogStatusSuccess,
		Details:   "old entry",
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	}
	fresh := &entities.SyncLogEntry{
		Type:      entities.SyncLogTypeProgress,
		Status:    entities.SyncLogStatusSuccess,
		Details:   "fresh entry",
		CreatedAt: now,
	}

	require.NoError(t, repo.Append(old))
	require.NoError(t, repo.Append(fresh))

	deleted, err := repo.DeleteOldEntries(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh entry", entries[0].Details)
}
