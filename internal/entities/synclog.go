package entities

import "time"

type SyncLogType string

const (
	SyncLogTypeProgress SyncLogType = "progress"
	SyncLogTypeQuiz     SyncLogType = "quiz"
)

type SyncLogStatus string

const (
	SyncLogStatusSuccess SyncLogStatus = "success"
	SyncLogStatusFailed  SyncLogStatus = "failed"
)

// SyncLogEntry is an append-only audit record of one delivery attempt.
// The log is observability only; losing it never affects delivery guarantees.
type SyncLogEntry struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Type      SyncLogType   `gorm:"index;size:20" json:"type"`
	Status    SyncLogStatus `gorm:"size:20" json:"status"`
	RecordID  string        `gorm:"index;size:36" json:"record_id,omitempty"`
	Details   string        `gorm:"size:500" json:"details,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
}

func (SyncLogEntry) TableName() string {
	return "sync_log_entries"
}
