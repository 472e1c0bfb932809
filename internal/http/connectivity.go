package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectivityStore reads and overrides the online state.
type ConnectivityStore interface {
	IsOnline() bool
	SetOnline(online bool)
}

// ConnectivityResponse echoes the online state after a change.
type ConnectivityResponse struct {
	Online bool `json:"online"`
}

type ConnectivityController struct {
	monitor ConnectivityStore
}

func NewConnectivityController(monitor ConnectivityStore) *ConnectivityController {
	return &ConnectivityController{monitor: monitor}
}

// SetState reports a connectivity change from the UI layer. The embedding
// client observes the platform network state and pushes transitions here.
// POST /api/connectivity
func (cc *ConnectivityController) SetState(c *gin.Context) {
	var req struct {
		Online *bool `json:"online" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "online is required")
		return
	}

	cc.monitor.SetOnline(*req.Online)
	c.JSON(http.StatusOK, ConnectivityResponse{Online: cc.monitor.IsOnline()})
}
