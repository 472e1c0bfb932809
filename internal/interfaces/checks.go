package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/studyhall/companion/internal/connectivity"
	"github.com/studyhall/companion/internal/database/synclog"
	"github.com/studyhall/companion/internal/http"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/producer"
	"github.com/studyhall/companion/internal/remote"
	"github.com/studyhall/companion/internal/scheduler"
	"github.com/studyhall/companion/internal/syncer"
	"github.com/studyhall/companion/internal/tasks"
)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.SyncEngine = (*syncer.Orchestrator)(nil)
var _ http.SyncLogReader = (*synclog.Repository)(nil)
var _ http.ConnectivityStore = (*connectivity.Monitor)(nil)
var _ http.SubmissionRecorder = (*producer.Recorder)(nil)

// =============================================================================
// Sync Engine
// =============================================================================

// Submitter implementations
var _ syncer.Submitter = (*remote.Client)(nil)
var _ producer.Submitter = (*remote.Client)(nil)

// ConnectivitySource implementations
var _ syncer.ConnectivitySource = (*connectivity.Monitor)(nil)
var _ producer.ConnectivitySource = (*connectivity.Monitor)(nil)

// SyncTrigger implementations
var _ scheduler.SyncTrigger = (*syncer.Orchestrator)(nil)

// =============================================================================
// Identity and Maintenance
// =============================================================================

var _ identity.Provider = (*identity.StaticProvider)(nil)
var _ remote.TokenSource = (*identity.StaticProvider)(nil)

var _ tasks.SyncLogCleaner = (*synclog.Repository)(nil)
