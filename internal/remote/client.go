// Package remote implements the client for the learning service's mutation
// endpoints. The endpoints upsert by user+lesson or user+quiz, so resubmitting
// the same record is safe; the sync engine relies on that for at-least-once
// delivery. Each Submit call performs exactly one request — retry across sync
// episodes is the engine's job, not the transport's.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	progressPath   = "/api/v1/progress"
	quizAnswerPath = "/api/v1/quiz-answers"

	defaultTimeout = 15 * time.Second
)

// TokenSource supplies the bearer credential for outgoing requests.
type TokenSource interface {
	Token() (string, error)
}

// Client interfaces with the learning service submission API
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a new learning service API client
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ProgressSubmission is the lesson-completion payload delivered verbatim.
type ProgressSubmission struct {
	LessonID       string    `json:"lesson_id"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	VideoCompleted bool      `json:"video_completed"`
	QuizScore      int       `json:"quiz_score"`
	Completed      bool      `json:"completed"`
	CompletedAt    time.Time `json:"completed_at"`
}

// QuizSubmission is the quiz-answer payload delivered verbatim.
type QuizSubmission struct {
	QuizID         string `json:"quiz_id"`
	UserID         string `json:"user_id"`
	SelectedAnswer int    `json:"selected_answer"`
}

// SubmitProgress delivers one lesson-completion submission.
func (c *Client) SubmitProgress(ctx context.Context, submission ProgressSubmission) error {
	return c.post(ctx, progressPath, submission)
}

// SubmitQuiz delivers one quiz-answer submission.
func (c *Client) SubmitQuiz(ctx context.Context, submission QuizSubmission) error {
	return c.post(ctx, quizAnswerPath, submission)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RejectionError{StatusCode: resp.StatusCode, Detail: string(detail)}
	}
}
