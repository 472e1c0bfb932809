package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/companion/internal/entities"
	"github.com/studyhall/companion/internal/syncer"
)

// SyncEngine exposes the sync orchestrator to the HTTP layer.
type SyncEngine interface {
	Status() syncer.Status
	TriggerSync() bool
}

// SyncLogReader provides read access to the sync activity log.
type SyncLogReader interface {
	Recent(limit int) ([]entities.SyncLogEntry, error)
}

// SyncStatusResponse is the status payload shown in the UI status bar.
type SyncStatusResponse struct {
	syncer.Status
	Online bool `json:"online"`
}

// TriggerResponse reports whether a manual trigger started an episode.
type TriggerResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

type SyncController struct {
	engine  SyncEngine
	logs    SyncLogReader
	monitor ConnectivityStore
}

func NewSyncController(engine SyncEngine, logs SyncLogReader, monitor ConnectivityStore) *SyncController {
	return &SyncController{engine: engine, logs: logs, monitor: monitor}
}

// GetStatus returns pending counts, the sync state and the connectivity flag.
// GET /api/sync/status
func (sc *SyncController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, SyncStatusResponse{
		Status: sc.engine.Status(),
		Online: sc.monitor.IsOnline(),
	})
}

// Trigger starts a drain episode in the background.
// POST /api/sync/trigger
func (sc *SyncController) Trigger(c *gin.Context) {
	if sc.engine.TriggerSync() {
		c.JSON(http.StatusAccepted, TriggerResponse{Started: true, Message: "sync started"})
		return
	}
	c.JSON(http.StatusOK, TriggerResponse{Started: false, Message: "sync not started (offline, signed out, or already syncing)"})
}

// GetLogs returns the most recent sync log entries.
// GET /api/sync/logs?limit=N
func (sc *SyncController) GetLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := sc.logs.Recent(limit)
	if err != nil {
		respondInternalError(c, err, "get sync logs")
		return
	}
	c.JSON(http.StatusOK, entries)
}
