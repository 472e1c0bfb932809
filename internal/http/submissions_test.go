package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/companion/internal/producer"
)

func jsonBody(t *testing.T, payload any) io.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

type fakeRecorder struct {
	outcome    producer.Outcome
	err        error
	lastLesson *producer.LessonCompletion
	lastQuiz   *producer.QuizAnswer
}

func (f *fakeRecorder) RecordLessonCompletion(_ context.Context, event producer.LessonCompletion) (producer.Outcome, error) {
	f.lastLesson = &event
	return f.outcome, f.err
}

func (f *fakeRecorder) RecordQuizAnswer(_ context.Context, event producer.QuizAnswer) (producer.Outcome, error) {
	f.lastQuiz = &event
	return f.outcome, f.err
}

func setupSubmissionsRouter(recorder SubmissionRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewSubmissionsController(recorder)
	router := gin.New()
	router.POST("/api/lessons/complete", controller.CompleteLesson)
	router.POST("/api/quizzes/answer", controller.AnswerQuiz)
	return router
}

func TestSubmissionsController_CompleteLesson(t *testing.T) {
	t.Run("records the completion and reports the outcome", func(t *testing.T) {
		recorder := &fakeRecorder{outcome: producer.Outcome{Queued: true, RecordID: "r1"}}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/lessons/complete", jsonBody(t, map[string]any{
			"lesson_id":       "L1",
			"score":           85,
			"video_completed": true,
			"completed":       true,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, recorder.lastLesson)
		assert.Equal(t, "L1", recorder.lastLesson.LessonID)
		assert.Equal(t, 85, recorder.lastLesson.Score)
		assert.True(t, recorder.lastLesson.VideoCompleted)

		var outcome producer.Outcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.True(t, outcome.Queued)
		assert.Equal(t, "r1", outcome.RecordID)
	})

	t.Run("rejects a body without lesson_id", func(t *testing.T) {
		recorder := &fakeRecorder{}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/lessons/complete", jsonBody(t, map[string]any{"score": 10}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, recorder.lastLesson)
	})

	t.Run("returns 500 when recording fails entirely", func(t *testing.T) {
		recorder := &fakeRecorder{err: errors.New("store unavailable")}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/lessons/complete", jsonBody(t, map[string]any{"lesson_id": "L1"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSubmissionsController_AnswerQuiz(t *testing.T) {
	t.Run("records the answer and reports the outcome", func(t *testing.T) {
		recorder := &fakeRecorder{outcome: producer.Outcome{Delivered: true}}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/quizzes/answer", jsonBody(t, map[string]any{
			"quiz_id":         "Q1",
			"selected_answer": 2,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, recorder.lastQuiz)
		assert.Equal(t, "Q1", recorder.lastQuiz.QuizID)
		assert.Equal(t, 2, recorder.lastQuiz.SelectedAnswer)

		var outcome producer.Outcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		assert.True(t, outcome.Delivered)
	})

	t.Run("accepts answer index zero", func(t *testing.T) {
		recorder := &fakeRecorder{outcome: producer.Outcome{Queued: true}}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/quizzes/answer", jsonBody(t, map[string]any{
			"quiz_id":         "Q1",
			"selected_answer": 0,
		}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, recorder.lastQuiz)
		assert.Equal(t, 0, recorder.lastQuiz.SelectedAnswer)
	})

	t.Run("rejects a body without quiz_id", func(t *testing.T) {
		recorder := &fakeRecorder{}
		router := setupSubmissionsRouter(recorder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/quizzes/answer", jsonBody(t, map[string]any{"selected_answer": 1}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, recorder.lastQuiz)
	})
}
