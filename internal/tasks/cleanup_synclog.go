package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SyncLogCleaner provides the ability to delete old sync log entries.
type SyncLogCleaner interface {
	DeleteOldEntries(retention time.Duration) (int64, error)
}

// CleanupSyncLogTask removes sync log entries older than the configured
// retention period. The log is observability only, so the sweep never
// touches pending submissions.
type CleanupSyncLogTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for sync log cleanup tasks.
func (t CleanupSyncLogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_sync_log",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSyncLogProcessor creates a processor function for CleanupSyncLogTask.
func CleanupSyncLogProcessor(cleaner SyncLogCleaner) backlite.QueueProcessor[CleanupSyncLogTask] {
	return func(ctx context.Context, task CleanupSyncLogTask) error {
		if cleaner == nil {
			return fmt.Errorf("sync log cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 7
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldEntries(retention)
		if err != nil {
			return fmt.Errorf("cleanup sync log: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d sync log entries older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupSyncLogQueue creates a backlite queue for sync log cleanup tasks.
func NewCleanupSyncLogQueue(cleaner SyncLogCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupSyncLogProcessor(cleaner))
}
