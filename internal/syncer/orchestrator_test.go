package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studyhall/companion/internal/connectivity"
	"github.com/studyhall/companion/internal/database/pending"
	"github.com/studyhall/companion/internal/database/settings"
	"github.com/studyhall/companion/internal/database/synclog"
	"github.com/studyhall/companion/internal/entities"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/remote"
)

// fakeRemote accepts every submission unless its key (lesson or quiz id) is
// marked for rejection. It counts calls and can block to hold an episode open.
type fakeRemote struct {
	mu     sync.Mutex
	calls  []string
	reject map[string]bool
	block  chan struct{}
	onCall func(key string)
}

func (f *fakeRemote) submit(key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	onCall := f.onCall
	block := f.block
	rejected := f.reject[key]
	f.mu.Unlock()

	if onCall != nil {
		onCall(key)
	}
	if block != nil {
		<-block
	}
	if rejected {
		return errors.New("simulated delivery failure")
	}
	return nil
}

func (f *fakeRemote) SubmitProgress(_ context.Context, s remote.ProgressSubmission) error {
	return f.submit(s.LessonID)
}

func (f *fakeRemote) SubmitQuiz(_ context.Context, s remote.QuizSubmission) error {
	return f.submit(s.QuizID)
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fixture struct {
	store    *pending.Repository
	logs     *synclog.Repository
	settings *settings.Repository
	remote   *fakeRemote
	monitor  *connectivity.Monitor
	orch     *Orchestrator
}

func setup(t *testing.T, online bool) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.PendingProgress{},
		&entities.PendingQuiz{},
		&entities.SyncLogEntry{},
		&entities.Setting{},
	))

	f := &fixture{
		store:    pending.NewRepository(db),
		logs:     synclog.NewRepository(db),
		settings: settings.NewRepository(db),
		remote:   &fakeRemote{reject: make(map[string]bool)},
		monitor:  connectivity.NewMonitor(online),
	}
	f.orch = NewOrchestrator(f.store, f.logs, f.settings, f.remote, f.monitor,
		identity.NewStaticProvider("U1", "token"))
	return f
}

func TestOrchestrator_DrainCorrectness(t *testing.T) {
	f := setup(t, true)

	var ids []string
	for _, lesson := range []string{"L1", "L2", "L3"} {
		record, err := f.store.AddProgress(pending.ProgressInput{LessonID: lesson, UserID: "U1"})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}
	f.remote.reject["L2"] = true

	require.True(t, f.orch.SyncNow(context.Background()))

	records, err := f.store.GetProgress()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ids[1], records[0].ID)
	assert.Equal(t, "L2", records[0].LessonID)
	assert.Equal(t, 1, records[0].RetryCount)

	entries, err := f.logs.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var successes, failures int
	for _, entry := range entries {
		switch entry.Status {
		case entities.SyncLogStatusSuccess:
			successes++
		case entities.SyncLogStatusFailed:
			failures++
			assert.Equal(t, ids[1], entry.RecordID)
		}
	}
	assert.Equal(t, 2, successes)
	assert.Equal(t, 1, failures)
}

func TestOrchestrator_RetryCountMonotonic(t *testing.T) {
	f := setup(t, true)

	record, err := f.store.AddProgress(pending.ProgressInput{LessonID: "L1", UserID: "U1"})
	require.NoError(t, err)
	f.remote.reject["L1"] = true

	for n := 1; n <= 4; n++ {
		require.True(t, f.orch.SyncNow(context.Background()))

		records, err := f.store.GetProgress()
		require.NoError(t, err)
		require.Len(t, records, 1, "record must stay queued after failure")
		assert.Equal(t, record.ID, records[0].ID)
		assert.Equal(t, n, records[0].RetryCount)
	}
}

func TestOrchestrator_OfflineSafety(t *testing.T) {
	f := setup(t, false)

	_, err := f.store.AddProgress(pending.ProgressInput{LessonID: "L1", UserID: "U1"})
	require.NoError(t, err)

	assert.False(t, f.orch.TriggerSync())
	assert.False(t, f.orch.SyncNow(context.Background()))
	assert.Zero(t, f.remote.callCount())

	counts, err := f.store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Progress)
}

func TestOrchestrator_SkipsWhenSignedOut(t *testing.T) {
	f := setup(t, true)
	f.orch = NewOrchestrator(f.store, f.logs, f.settings, f.remote, f.monitor,
		identity.NewStaticProvider("", ""))

	_, err := f.store.AddProgress(pending.ProgressInput{LessonID: "L1", UserID: "U1"})
	require.NoError(t, err)

	assert.False(t, f.orch.SyncNow(context.Background()))
	assert.Zero(t, f.remote.callCount())
}

func TestOrchestrator_MutualExclusion(t *testing.T) {
	f := setup(t, true)

	for _, lesson := range []string{"L1", "L2", "L3"} {
		_, err := f.store.AddProgress(pending.ProgressInput{LessonID: lesson, UserID: "U1"})
		require.NoError(t, err)
	}

	f.remote.block = make(chan struct{})
	started := make(chan struct{}, 1)
	f.remote.onCall = func(string) {
		select {
		case started <- struct{}{}:
		default:
		}
	}

	require.True(t, f.orch.TriggerSync())
	<-started

	// Re-entrant triggers while Syncing are coalesced, not queued
	assert.False(t, f.orch.TriggerSync())
	assert.False(t, f.orch.TriggerSync())
	assert.True(t, f.orch.IsSyncing())

	close(f.remote.block)
	require.Eventually(t, func() bool { return !f.orch.IsSyncing() }, time.Second, 5*time.Millisecond)

	// Exactly one pass over the then-current pending set
	assert.Equal(t, 3, f.remote.callCount())
}

func TestOrchestrator_SoftStopWhenConnectivityLost(t *testing.T) {
	f := setup(t, true)

	for _, lesson := range []string{"L1", "L2", "L3"} {
		_, err := f.store.AddProgress(pending.ProgressInput{LessonID: lesson, UserID: "U1"})
		require.NoError(t, err)
	}

	// Going offline after the first delivery ends the episode early
	f.remote.onCall = func(string) { f.monitor.SetOnline(false) }

	require.True(t, f.orch.SyncNow(context.Background()))
	assert.Equal(t, 1, f.remote.callCount())

	records, err := f.store.GetProgress()
	require.NoError(t, err)
	require.Len(t, records, 2, "unattempted records stay untouched")
	for _, record := range records {
		assert.Zero(t, record.RetryCount)
	}

	// Back online, a fresh episode finishes the job
	f.remote.onCall = nil
	f.monitor.SetOnline(true)
	require.True(t, f.orch.SyncNow(context.Background()))

	records, err = f.store.GetProgress()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	f := setup(t, false)

	completedAt := time.Now().Add(-time.Hour)
	_, err := f.store.AddProgress(pending.ProgressInput{
		LessonID:    "L1",
		UserID:      "U1",
		Score:       85,
		Completed:   true,
		CompletedAt: completedAt,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.orch.Start(ctx)
	defer f.orch.Stop()

	// Offline: nothing moves
	assert.Zero(t, f.remote.callCount())

	f.monitor.SetOnline(true)

	require.Eventually(t, func() bool {
		records, err := f.store.GetProgress()
		return err == nil && len(records) == 0
	}, time.Second, 5*time.Millisecond)

	entries, err := f.logs.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.SyncLogStatusSuccess, entries[0].Status)
	assert.Equal(t, entities.SyncLogTypeProgress, entries[0].Type)

	status := f.orch.Status()
	assert.Zero(t, status.Pending.Progress)
	assert.False(t, status.IsSyncing)
	require.NotNil(t, status.LastSyncAt)
}

func TestOrchestrator_QuizDrain(t *testing.T) {
	f := setup(t, true)

	_, err := f.store.AddQuiz(pending.QuizInput{QuizID: "Q1", UserID: "U1", SelectedAnswer: 2})
	require.NoError(t, err)
	_, err = f.store.AddQuiz(pending.QuizInput{QuizID: "Q2", UserID: "U1", SelectedAnswer: 0})
	require.NoError(t, err)
	f.remote.reject["Q2"] = true

	require.True(t, f.orch.SyncNow(context.Background()))

	records, err := f.store.GetQuiz()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Q2", records[0].QuizID)
	assert.Equal(t, 1, records[0].RetryCount)
}

func TestOrchestrator_LastSyncAtPersisted(t *testing.T) {
	f := setup(t, true)

	require.True(t, f.orch.SyncNow(context.Background()))

	first := f.orch.LastSyncAt()
	require.NotNil(t, first)

	persisted := f.settings.GetTime(entities.SettingKeySyncLastAt)
	require.NotNil(t, persisted)
	assert.WithinDuration(t, *first, *persisted, time.Second)

	// A rebuilt orchestrator picks the timestamp back up from the store
	rebuilt := NewOrchestrator(f.store, f.logs, f.settings, f.remote, f.monitor,
		identity.NewStaticProvider("U1", "token"))
	require.NotNil(t, rebuilt.LastSyncAt())
}
