// Package producer turns user actions into submissions. Every completion or
// answer event gets one immediate delivery attempt; when that is impossible
// or fails, the action is enqueued in the offline store instead of dropped.
// Offline completion is a supported path, so callers see success either way.
package producer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/studyhall/companion/internal/database/pending"
	"github.com/studyhall/companion/internal/identity"
	"github.com/studyhall/companion/internal/remote"
)

// Submitter delivers submissions to the learning service.
type Submitter interface {
	SubmitProgress(ctx context.Context, submission remote.ProgressSubmission) error
	SubmitQuiz(ctx context.Context, submission remote.QuizSubmission) error
}

// ConnectivitySource reports whether the network is currently reachable.
type ConnectivitySource interface {
	IsOnline() bool
}

// LessonCompletion is a lesson-completion event from the UI layer.
type LessonCompletion struct {
	LessonID       string
	Score          int
	VideoCompleted bool
	QuizScore      int
	Completed      bool
	CompletedAt    time.Time
}

// QuizAnswer is a quiz-answer event from the UI layer.
type QuizAnswer struct {
	QuizID         string
	SelectedAnswer int
}

// Outcome reports how a recorded action was handled.
type Outcome struct {
	Delivered bool   `json:"delivered"` // reached the learning service immediately
	Queued    bool   `json:"queued"`    // enqueued for a later sync episode
	RecordID  string `json:"record_id,omitempty"`
}

// Recorder is the only creator of pending records.
type Recorder struct {
	store    *pending.Repository
	remote   Submitter
	monitor  ConnectivitySource
	identity identity.Provider
}

// NewRecorder creates a submission recorder.
func NewRecorder(store *pending.Repository, submitter Submitter, monitor ConnectivitySource, provider identity.Provider) *Recorder {
	return &Recorder{
		store:    store,
		remote:   submitter,
		monitor:  monitor,
		identity: provider,
	}
}

// RecordLessonCompletion handles one lesson-completion event. An error is
// returned only when both the immediate delivery and the offline fallback
// failed; the action is lost in that case and the caller must say so.
func (r *Recorder) RecordLessonCompletion(ctx context.Context, event LessonCompletion) (Outcome, error) {
	userID := r.identity.UserID()
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now()
	}

	if r.attemptImmediate(ctx) {
		err := r.remote.SubmitProgress(ctx, remote.ProgressSubmission{
			LessonID:       event.LessonID,
			UserID:         userID,
			Score:          event.Score,
			VideoCompleted: event.VideoCompleted,
			QuizScore:      event.QuizScore,
			Completed:      event.Completed,
			CompletedAt:    event.CompletedAt,
		})
		if err == nil {
			return Outcome{Delivered: true}, nil
		}
		log.Printf("Recorder: immediate delivery for lesson %s failed, queueing: %v", event.LessonID, err)
	}

	record, err := r.store.AddProgress(pending.ProgressInput{
		LessonID:       event.LessonID,
		UserID:         userID,
		Score:          event.Score,
		VideoCompleted: event.VideoCompleted,
		QuizScore:      event.QuizScore,
		Completed:      event.Completed,
		CompletedAt:    event.CompletedAt,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to queue lesson completion: %w", err)
	}
	return Outcome{Queued: true, RecordID: record.ID}, nil
}

// RecordQuizAnswer handles one quiz-answer event, with the same fallback
// contract as RecordLessonCompletion.
func (r *Recorder) RecordQuizAnswer(ctx context.Context, event QuizAnswer) (Outcome, error) {
	userID := r.identity.UserID()

	if r.attemptImmediate(ctx) {
		err := r.remote.SubmitQuiz(ctx, remote.QuizSubmission{
			QuizID:         event.QuizID,
			UserID:         userID,
			SelectedAnswer: event.SelectedAnswer,
		})
		if err == nil {
			return Outcome{Delivered: true}, nil
		}
		log.Printf("Recorder: immediate delivery for quiz %s failed, queueing: %v", event.QuizID, err)
	}

	record, err := r.store.AddQuiz(pending.QuizInput{
		QuizID:         event.QuizID,
		UserID:         userID,
		SelectedAnswer: event.SelectedAnswer,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to queue quiz answer: %w", err)
	}
	return Outcome{Queued: true, RecordID: record.ID}, nil
}

// attemptImmediate reports whether an immediate remote delivery should even
// be tried. Known-offline or signed-out states go straight to the queue.
func (r *Recorder) attemptImmediate(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !r.monitor.IsOnline() {
		return false
	}
	if r.identity != nil && !r.identity.IsAuthenticated() {
		return false
	}
	return true
}
