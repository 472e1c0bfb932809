package database

import (
	"fmt"
	"log"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyhall/companion/internal/entities"
)

// storeVersion is the current on-device store generation. Bump it when the
// collection set changes and add an upgrade step in runUpgrades.
const storeVersion = 2

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.PendingProgress{},
		&entities.PendingQuiz{},
		&entities.SyncLogEntry{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.runUpgrades(); err != nil {
		return nil, fmt.Errorf("failed to upgrade store: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// runUpgrades compares the persisted store generation with the current one
// and records the new version. AutoMigrate handles additive schema changes;
// versioned steps exist for anything it cannot express.
func (d *Database) runUpgrades() error {
	var setting entities.Setting
	result := d.DB.Where("key = ?", entities.SettingKeyStoreVersion).First(&setting)

	if result.Error == gorm.ErrRecordNotFound {
		setting = entities.Setting{
			Key:   entities.SettingKeyStoreVersion,
			Value: strconv.Itoa(storeVersion),
		}
		return d.DB.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	current, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fmt.Errorf("invalid store version %q: %w", setting.Value, err)
	}
	if current == storeVersion {
		return nil
	}
	if current > storeVersion {
		return fmt.Errorf("store version %d is newer than supported version %d", current, storeVersion)
	}

	// v1 -> v2: the quiz answer collection was added. AutoMigrate already
	// created the table, nothing to backfill.
	log.Printf("Upgraded store from version %d to %d", current, storeVersion)

	setting.Value = strconv.Itoa(storeVersion)
	return d.DB.Save(&setting).Error
}
