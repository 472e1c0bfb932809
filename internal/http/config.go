package http

import (
	"github.com/studyhall/companion/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Sync engine surface
	SyncEngine SyncEngine
	SyncLogs   SyncLogReader

	// Connectivity control
	Connectivity ConnectivityStore

	// Submission recording
	Recorder SubmissionRecorder

	// Application info
	Version string
}
