// Package pending provides database operations for the offline submission queue.
//
// Records enter the queue when an immediate delivery to the learning service is
// not possible, and leave it only after a confirmed delivery or an explicit
// clear. Only the sync engine mutates records after creation.
//
// # Usage
//
//	repo := pending.NewRepository(db)
//	rec, err := repo.AddProgress(pending.ProgressInput{LessonID: "L1", UserID: "U1", Score: 85})
package pending

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/companion/internal/entities"
)

// Repository handles all pending submission database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new pending submission repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ProgressInput is the caller-supplied part of a lesson-completion submission.
// The repository assigns the id, enqueue timestamp and retry count.
type ProgressInput struct {
	LessonID       string
	UserID         string
	Score          int
	VideoCompleted bool
	QuizScore      int
	Completed      bool
	CompletedAt    time.Time
}

// QuizInput is the caller-supplied part of a quiz-answer submission.
type QuizInput struct {
	QuizID         string
	UserID         string
	SelectedAnswer int
}

// Counts holds the number of pending records per collection.
type Counts struct {
	Progress int64 `json:"progress"`
	Quiz     int64 `json:"quiz"`
}

// Total returns the combined number of pending records.
func (c Counts) Total() int64 {
	return c.Progress + c.Quiz
}

// AddProgress enqueues a lesson-completion submission and returns the stored record.
func (r *Repository) AddProgress(input ProgressInput) (*entities.PendingProgress, error) {
	record := &entities.PendingProgress{
		ID:             uuid.NewString(),
		LessonID:       input.LessonID,
		UserID:         input.UserID,
		Score:          input.Score,
		VideoCompleted: input.VideoCompleted,
		QuizScore:      input.QuizScore,
		Completed:      input.Completed,
		CompletedAt:    input.CompletedAt,
		CreatedAt:      time.Now(),
		RetryCount:     0,
	}
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// GetProgress returns all pending lesson-completion submissions.
func (r *Repository) GetProgress() ([]entities.PendingProgress, error) {
	var records []entities.PendingProgress
	err := r.db.Order("created_at ASC").Find(&records).Error
	return records, err
}

// RemoveProgress deletes a pending progress record. Removing an id that does
// not exist is a no-op.
func (r *Repository) RemoveProgress(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.PendingProgress{}).Error
}

// SetProgressRetryCount updates the retry counter for a pending progress
// record. Updating an id that does not exist is a no-op.
func (r *Repository) SetProgressRetryCount(id string, count int) error {
	return r.db.Model(&entities.PendingProgress{}).
		Where("id = ?", id).
		Update("retry_count", count).Error
}

// AddQuiz enqueues a quiz-answer submission and returns the stored record.
func (r *Repository) AddQuiz(input QuizInput) (*entities.PendingQuiz, error) {
	record := &entities.PendingQuiz{
		ID:             uuid.NewString(),
		QuizID:         input.QuizID,
		UserID:         input.UserID,
		SelectedAnswer: input.SelectedAnswer,
		CreatedAt:      time.Now(),
		RetryCount:     0,
	}
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// GetQuiz returns all pending quiz-answer submissions.
func (r *Repository) GetQuiz() ([]entities.PendingQuiz, error) {
	var records []entities.PendingQuiz
	err := r.db.Order("created_at ASC").Find(&records).Error
	return records, err
}

// RemoveQuiz deletes a pending quiz record. Removing an id that does not
// exist is a no-op.
func (r *Repository) RemoveQuiz(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.PendingQuiz{}).Error
}

// SetQuizRetryCount updates the retry counter for a pending quiz record.
// Updating an id that does not exist is a no-op.
func (r *Repository) SetQuizRetryCount(id string, count int) error {
	return r.db.Model(&entities.PendingQuiz{}).
		Where("id = ?", id).
		Update("retry_count", count).Error
}

// Counts returns the number of pending records in each collection. Each count
// is accurate at its own time of read; no cross-collection atomicity.
func (r *Repository) Counts() (Counts, error) {
	var counts Counts
	if err := r.db.Model(&entities.PendingProgress{}).Count(&counts.Progress).Error; err != nil {
		return counts, err
	}
	err := r.db.Model(&entities.PendingQuiz{}).Count(&counts.Quiz).Error
	return counts, err
}

// ClearAll deletes all pending records in both collections. Used for resets
// and tests only, never from steady-state application flow.
func (r *Repository) ClearAll() error {
	if err := r.db.Where("1 = 1").Delete(&entities.PendingProgress{}).Error; err != nil {
		return err
	}
	return r.db.Where("1 = 1").Delete(&entities.PendingQuiz{}).Error
}
