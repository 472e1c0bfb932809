package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/companion/internal/producer"
)

// SubmissionRecorder records user actions with an offline fallback.
type SubmissionRecorder interface {
	RecordLessonCompletion(ctx context.Context, event producer.LessonCompletion) (producer.Outcome, error)
	RecordQuizAnswer(ctx context.Context, event producer.QuizAnswer) (producer.Outcome, error)
}

type SubmissionsController struct {
	recorder SubmissionRecorder
}

func NewSubmissionsController(recorder SubmissionRecorder) *SubmissionsController {
	return &SubmissionsController{recorder: recorder}
}

// CompleteLesson records a lesson completion. The response says whether the
// submission reached the learning service or was queued for a later sync.
// POST /api/lessons/complete
func (sc *SubmissionsController) CompleteLesson(c *gin.Context) {
	var req struct {
		LessonID       string    `json:"lesson_id" binding:"required"`
		Score          int       `json:"score"`
		VideoCompleted bool      `json:"video_completed"`
		QuizScore      int       `json:"quiz_score"`
		Completed      bool      `json:"completed"`
		CompletedAt    time.Time `json:"completed_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "lesson_id is required")
		return
	}

	outcome, err := sc.recorder.RecordLessonCompletion(c.Request.Context(), producer.LessonCompletion{
		LessonID:       req.LessonID,
		Score:          req.Score,
		VideoCompleted: req.VideoCompleted,
		QuizScore:      req.QuizScore,
		Completed:      req.Completed,
		CompletedAt:    req.CompletedAt,
	})
	if err != nil {
		respondInternalError(c, err, "record lesson completion")
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// AnswerQuiz records a quiz answer with the same fallback contract.
// POST /api/quizzes/answer
func (sc *SubmissionsController) AnswerQuiz(c *gin.Context) {
	var req struct {
		QuizID         string `json:"quiz_id" binding:"required"`
		SelectedAnswer int    `json:"selected_answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "quiz_id is required")
		return
	}

	outcome, err := sc.recorder.RecordQuizAnswer(c.Request.Context(), producer.QuizAnswer{
		QuizID:         req.QuizID,
		SelectedAnswer: req.SelectedAnswer,
	})
	if err != nil {
		respondInternalError(c, err, "record quiz answer")
		return
	}
	c.JSON(http.StatusOK, outcome)
}
