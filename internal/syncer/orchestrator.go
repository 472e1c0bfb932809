// Package syncer drains the offline submission queue against the learning
// service. It is the consumer side of the queue: the only writer of retry
// counts and the only deleter of successfully delivered records.
package syncer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/studyhall/companion/internal/database/pending"
	"github.com/studyhall/companion/internal/database/settings"
	"github.com/studyhall/companion/internal/database/synclog"
	"github.com/studyhall/companion/internal/entities"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/remote"
)

// Submitter delivers submissions to the learning service.
type Submitter interface {
	SubmitProgress(ctx context.Context, submission remote.ProgressSubmission) error
	SubmitQuiz(ctx context.Context, submission remote.QuizSubmission) error
}

// ConnectivitySource exposes the online state and its transitions.
type ConnectivitySource interface {
	IsOnline() bool
	Subscribe() chan bool
	Unsubscribe(ch chan bool)
}

// Status is the UI-facing snapshot of the sync engine.
type Status struct {
	Pending    pending.Counts `json:"pending"`
	IsSyncing  bool           `json:"is_syncing"`
	LastSyncAt *time.Time     `json:"last_sync_at,omitempty"`
}

// Orchestrator runs at most one drain episode at a time. It is long-lived for
// the application session; Start and Stop bound its background work.
type Orchestrator struct {
	store    *pending.Repository
	logs     *synclog.Repository
	settings *settings.Repository // optional; persists lastSyncAt across restarts
	remote   Submitter
	monitor  ConnectivitySource
	identity identity.Provider

	mu         sync.RWMutex
	isSyncing  bool
	lastSyncAt *time.Time
	counts     pending.Counts

	events chan bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates an orchestrator. settingsRepo may be nil, in which
// case lastSyncAt is session-local only.
func NewOrchestrator(
	store *pending.Repository,
	logs *synclog.Repository,
	settingsRepo *settings.Repository,
	submitter Submitter,
	monitor ConnectivitySource,
	provider identity.Provider,
) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		logs:     logs,
		settings: settingsRepo,
		remote:   submitter,
		monitor:  monitor,
		identity: provider,
	}

	if settingsRepo != nil {
		o.lastSyncAt = settingsRepo.GetTime(entities.SettingKeySyncLastAt)
	}
	if counts, err := store.Counts(); err == nil {
		o.counts = counts
	}

	return o
}

// Start subscribes to connectivity transitions. Every offline-to-online
// transition triggers a drain episode.
func (o *Orchestrator) Start(ctx context.Context) {
	var runCtx context.Context
	runCtx, o.cancel = context.WithCancel(ctx)

	o.events = o.monitor.Subscribe()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case online, ok := <-o.events:
				if !ok {
					return
				}
				if online {
					log.Printf("Sync: connectivity regained, draining queue")
					o.TriggerSync()
				}
			}
		}
	}()
}

// Stop unsubscribes from connectivity events and waits for any in-flight
// episode to finish its soft-stop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	if o.events != nil {
		o.monitor.Unsubscribe(o.events)
	}
	o.wg.Wait()
}

// TriggerSync starts a drain episode in the background. Returns false when no
// episode started: already syncing (coalesced), offline, or signed out.
func (o *Orchestrator) TriggerSync() bool {
	if !o.begin() {
		return false
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.drain(context.Background())
	}()
	return true
}

// SyncNow runs one drain episode synchronously. Same gating as TriggerSync.
func (o *Orchestrator) SyncNow(ctx context.Context) bool {
	if !o.begin() {
		return false
	}
	o.drain(ctx)
	return true
}

// IsSyncing reports whether a drain episode is in progress.
func (o *Orchestrator) IsSyncing() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.isSyncing
}

// LastSyncAt returns when the most recent episode finished, or nil.
func (o *Orchestrator) LastSyncAt() *time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastSyncAt
}

// Status returns the UI-facing snapshot. Pending counts are read live from
// the store; the cached counts from the last episode back them up.
func (o *Orchestrator) Status() Status {
	counts, err := o.store.Counts()

	o.mu.RLock()
	defer o.mu.RUnlock()
	if err != nil {
		counts = o.counts
	}
	return Status{
		Pending:    counts,
		IsSyncing:  o.isSyncing,
		LastSyncAt: o.lastSyncAt,
	}
}

// begin transitions Idle -> Syncing. Re-entrant triggers are ignored, not
// queued; offline or signed-out triggers never touch the remote endpoint.
func (o *Orchestrator) begin() bool {
	if !o.monitor.IsOnline() {
		log.Printf("Sync: skipped (offline)")
		return false
	}
	if o.identity != nil && !o.identity.IsAuthenticated() {
		log.Printf("Sync: skipped (not authenticated)")
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.isSyncing {
		log.Printf("Sync: skipped (already syncing)")
		return false
	}
	o.isSyncing = true
	return true
}

// drain executes one episode: snapshot both collections, attempt each record
// once, remove on success, bump the retry counter on failure. Records never
// leave the queue on failure — retry is unbounded by design; a cap or backoff
// would hang off the retry counter kept here.
func (o *Orchestrator) drain(ctx context.Context) {
	startedAt := time.Now()
	var delivered, failed, skipped int

	defer func() {
		o.finish(startedAt, delivered, failed, skipped)
	}()

	progressRecords, err := o.store.GetProgress()
	if err != nil {
		log.Printf("Sync: failed to read pending progress: %v", err)
		return
	}
	quizRecords, err := o.store.GetQuiz()
	if err != nil {
		log.Printf("Sync: failed to read pending quiz answers: %v", err)
		return
	}

	if len(progressRecords) == 0 && len(quizRecords) == 0 {
		return
	}
	log.Printf("Sync: draining %d progress and %d quiz submissions",
		len(progressRecords), len(quizRecords))

	for _, record := range progressRecords {
		if o.softStop(ctx) {
			skipped = len(progressRecords) + len(quizRecords) - delivered - failed
			return
		}
		if o.deliverProgress(ctx, record) {
			delivered++
		} else {
			failed++
		}
	}

	for _, record := range quizRecords {
		if o.softStop(ctx) {
			skipped = len(progressRecords) + len(quizRecords) - delivered - failed
			return
		}
		if o.deliverQuiz(ctx, record) {
			delivered++
		} else {
			failed++
		}
	}
}

// softStop reports whether the episode should end early. Unattempted records
// stay untouched; the next online transition starts a fresh episode.
func (o *Orchestrator) softStop(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if !o.monitor.IsOnline() {
		log.Printf("Sync: connectivity lost mid-drain, stopping episode")
		return true
	}
	return false
}

func (o *Orchestrator) deliverProgress(ctx context.Context, record entities.PendingProgress) bool {
	err := o.remote.SubmitProgress(ctx, remote.ProgressSubmission{
		LessonID:       record.LessonID,
		UserID:         record.UserID,
		Score:          record.Score,
		VideoCompleted: record.VideoCompleted,
		QuizScore:      record.QuizScore,
		Completed:      record.Completed,
		CompletedAt:    record.CompletedAt,
	})

	if err != nil {
		o.recordFailure(entities.SyncLogTypeProgress, record.ID,
			fmt.Sprintf("lesson %s: %v", record.LessonID, err))
		if updateErr := o.store.SetProgressRetryCount(record.ID, record.RetryCount+1); updateErr != nil {
			log.Printf("Sync: failed to bump retry count for %s: %v", record.ID, updateErr)
		}
		return false
	}

	if removeErr := o.store.RemoveProgress(record.ID); removeErr != nil {
		// The record will be redelivered next episode; the endpoint upserts.
		log.Printf("Sync: delivered %s but failed to dequeue: %v", record.ID, removeErr)
	}
	o.recordSuccess(entities.SyncLogTypeProgress, record.ID,
		fmt.Sprintf("lesson %s delivered", record.LessonID))
	return true
}

func (o *Orchestrator) deliverQuiz(ctx context.Context, record entities.PendingQuiz) bool {
	err := o.remote.SubmitQuiz(ctx, remote.QuizSubmission{
		QuizID:         record.QuizID,
		UserID:         record.UserID,
		SelectedAnswer: record.SelectedAnswer,
	})

	if err != nil {
		o.recordFailure(entities.SyncLogTypeQuiz, record.ID,
			fmt.Sprintf("quiz %s: %v", record.QuizID, err))
		if updateErr := o.store.SetQuizRetryCount(record.ID, record.RetryCount+1); updateErr != nil {
			log.Printf("Sync: failed to bump retry count for %s: %v", record.ID, updateErr)
		}
		return false
	}

	if removeErr := o.store.RemoveQuiz(record.ID); removeErr != nil {
		log.Printf("Sync: delivered %s but failed to dequeue: %v", record.ID, removeErr)
	}
	o.recordSuccess(entities.SyncLogTypeQuiz, record.ID,
		fmt.Sprintf("quiz %s delivered", record.QuizID))
	return true
}

func (o *Orchestrator) recordSuccess(logType entities.SyncLogType, recordID, details string) {
	o.appendLog(logType, entities.SyncLogStatusSuccess, recordID, details)
}

func (o *Orchestrator) recordFailure(logType entities.SyncLogType, recordID, details string) {
	log.Printf("Sync: delivery failed: %s", details)
	o.appendLog(logType, entities.SyncLogStatusFailed, recordID, details)
}

// appendLog writes an activity log entry. The log is observability only, so
// a write failure never interferes with the episode.
func (o *Orchestrator) appendLog(logType entities.SyncLogType, status entities.SyncLogStatus, recordID, details string) {
	err := o.logs.Append(&entities.SyncLogEntry{
		Type:     logType,
		Status:   status,
		RecordID: recordID,
		Details:  details,
	})
	if err != nil {
		log.Printf("Sync: failed to append log entry: %v", err)
	}
}

// finish returns the orchestrator to Idle, stamps lastSyncAt and refreshes
// the cached pending counts.
func (o *Orchestrator) finish(startedAt time.Time, delivered, failed, skipped int) {
	finishedAt := time.Now()

	counts, countsErr := o.store.Counts()

	o.mu.Lock()
	o.isSyncing = false
	o.lastSyncAt = &finishedAt
	if countsErr == nil {
		o.counts = counts
	}
	o.mu.Unlock()

	if delivered+failed+skipped > 0 {
		log.Printf("Sync: episode finished in %v (delivered %d, failed %d, skipped %d)",
			finishedAt.Sub(startedAt).Round(time.Millisecond), delivered, failed, skipped)
	}

	o.persistOutcome(finishedAt, delivered, failed, skipped)
}

func (o *Orchestrator) persistOutcome(finishedAt time.Time, delivered, failed, skipped int) {
	if o.settings == nil {
		return
	}
	if err := o.settings.SetTime(entities.SettingKeySyncLastAt, finishedAt); err != nil {
		log.Printf("Sync: failed to persist last sync time: %v", err)
		return
	}

	status := "success"
	if failed > 0 || skipped > 0 {
		status = "partial"
	}
	_ = o.settings.SetSetting(entities.SettingKeySyncLastStatus, status)
	_ = o.settings.SetSetting(entities.SettingKeySyncLastMessage,
		fmt.Sprintf("delivered %d, failed %d, skipped %d", delivered, failed, skipped))
}
