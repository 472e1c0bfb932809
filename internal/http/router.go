package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Sync engine endpoints
	if cfg.SyncEngine != nil {
		syncController := NewSyncController(cfg.SyncEngine, cfg.SyncLogs, cfg.Connectivity)
		router.GET("/api/sync/status", syncController.GetStatus)
		router.POST("/api/sync/trigger", syncController.Trigger)
		router.GET("/api/sync/logs", syncController.GetLogs)
	}

	// Connectivity endpoint
	if cfg.Connectivity != nil {
		connectivityController := NewConnectivityController(cfg.Connectivity)
		router.POST("/api/connectivity", connectivityController.SetState)
	}

	// Submission endpoints
	if cfg.Recorder != nil {
		submissionsController := NewSubmissionsController(cfg.Recorder)
		router.POST("/api/lessons/complete", submissionsController.CompleteLesson)
		router.POST("/api/quizzes/answer", submissionsController.AnswerQuiz)
	}

	return router
}
