// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Sync Engine Interfaces
//
//   - Submitter: delivers submissions to the learning service
//     (internal/syncer/orchestrator.go, internal/producer/recorder.go)
//   - ConnectivitySource: exposes the online state and its transitions
//     (internal/syncer/orchestrator.go, internal/producer/recorder.go)
//   - SyncTrigger: starts a drain episode (internal/scheduler/scheduler.go)
//
// ## HTTP Layer Interfaces
//
//   - SyncEngine: orchestrator surface for the status endpoints (internal/http/sync.go)
//   - SyncLogReader: read access to the sync activity log (internal/http/sync.go)
//   - ConnectivityStore: read and override the online state (internal/http/connectivity.go)
//   - SubmissionRecorder: record user actions with an offline fallback (internal/http/submissions.go)
//
// ## Identity and Maintenance Interfaces
//
//   - identity.Provider: current user id and bearer credential (internal/identity/provider.go)
//   - remote.TokenSource: credential lookup for outgoing requests (internal/remote/client.go)
//   - tasks.SyncLogCleaner: age-based retention sweep (internal/tasks/cleanup_synclog.go)
//
// # Adding a New Submission Kind
//
// To queue and sync a new kind of user action:
//
//  1. Add the entity in internal/entities/ with a uuid primary key,
//     created_at timestamp and retry_count column
//
//  2. Extend the pending repository (internal/database/pending/) with
//     Add/Get/Remove/SetRetryCount operations for the new collection
//
//  3. Add the wire payload and a Submit method to the remote client
//
//  4. Teach the orchestrator's drain loop and the producer about the
//     new collection, and register an HTTP endpoint for the UI layer
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
