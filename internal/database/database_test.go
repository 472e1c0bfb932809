package database

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/companion/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "companion.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	// All collections migrated
	assert.True(t, db.DB.Migrator().HasTable(&entities.PendingProgress{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.PendingQuiz{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.SyncLogEntry{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.Setting{}))
}

func TestNewDatabase_StampsStoreVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "companion.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	err = db.DB.Where("key = ?", entities.SettingKeyStoreVersion).First(&setting).Error
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(storeVersion), setting.Value)
}

func TestNewDatabase_UpgradesOldStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "companion.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	// Simulate a store written by an older release
	err = db.DB.Model(&entities.Setting{}).
		Where("key = ?", entities.SettingKeyStoreVersion).
		Update("value", "1").Error
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	err = db.DB.Where("key = ?", entities.SettingKeyStoreVersion).First(&setting).Error
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(storeVersion), setting.Value)
}

func TestNewDatabase_RejectsNewerStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "companion.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	err = db.DB.Model(&entities.Setting{}).
		Where("key = ?", entities.SettingKeyStoreVersion).
		Update("value", strconv.Itoa(storeVersion+1)).Error
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewDatabase(dbPath)
	assert.Error(t, err)
}
