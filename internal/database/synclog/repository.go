// Package synclog provides database operations for the sync activity log.
//
// Entries are appended by the sync engine at the conclusion of each delivery
// attempt and are otherwise read-only. The log is purged only by the
// age-based retention sweep.
package synclog

import (
	"time"

	"gorm.io/gorm"

	"github.com/studyhall/companion/internal/entities"
)

// Repository handles all sync log database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sync log repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append saves a delivery attempt outcome. The id and timestamp are stamped here.
func (r *Repository) Append(entry *entities.SyncLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

// Recent retrieves log entries ordered most-recent-first, bounded to limit.
func (r *Repository) Recent(limit int) ([]entities.SyncLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []entities.SyncLogEntry
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// DeleteOlderThan removes log entries created before the cutoff.
// Returns the number of deleted entries.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.SyncLogEntry{})
	return result.RowsAffected, result.Error
}

// DeleteOldEntries removes log entries older than the retention duration.
// Returns the number of deleted entries.
func (r *Repository) DeleteOldEntries(retention time.Duration) (int64, error) {
	return r.DeleteOlderThan(time.Now().Add(-retention))
}
