package entities

import "time"

// PendingProgress is a lesson-completion submission awaiting delivery to the
// learning service. Rows are created by the submission producers when an
// immediate delivery is not possible, and are only mutated (retry bump) or
// removed (on confirmed delivery) by the sync engine.
type PendingProgress struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	LessonID       string    `gorm:"index;size:64" json:"lesson_id"`
	UserID         string    `gorm:"index;size:64" json:"user_id"`
	Score          int       `json:"score"`
	VideoCompleted bool      `json:"video_completed"`
	QuizScore      int       `json:"quiz_score"`
	Completed      bool      `json:"completed"`
	CompletedAt    time.Time `json:"completed_at"` // when the user finished, not when it synced
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	RetryCount     int       `json:"retry_count"`
}

func (PendingProgress) TableName() string {
	return "pending_progress"
}

// PendingQuiz is a quiz-answer submission awaiting delivery. Same lifecycle
// as PendingProgress with a narrower payload.
type PendingQuiz struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	QuizID         string    `gorm:"index;size:64" json:"quiz_id"`
	UserID         string    `gorm:"index;size:64" json:"user_id"`
	SelectedAnswer int       `json:"selected_answer"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	RetryCount     int       `json:"retry_count"`
}

func (PendingQuiz) TableName() string {
	return "pending_quiz_answers"
}
