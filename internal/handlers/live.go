package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	redisclient "github.com/shotlist-app/shotlist-backend/internal/clients/redis"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
)

// LiveHandler streams list snapshots for a project as server-sent events.
// It is only wired when a Subscribable backend was constructed.
type LiveHandler struct {
	log *logger.Logger
	bus redisclient.Subscribable
}

func NewLiveHandler(log *logger.Logger, bus redisclient.Subscribable) *LiveHandler {
	return &LiveHandler{log: log.With("handler", "LiveHandler"), bus: bus}
}

func (lh *LiveHandler) Stream(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}

	snaps := make(chan redisclient.Snapshot, 16)
	sub, err := lh.bus.Subscribe(c.Request.Context(), projectID, func(s redisclient.Snapshot) {
		select {
		case snaps <- s:
		default:
			// slow consumer, drop
		}
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snap := <-snaps:
			raw, err := json.Marshal(snap)
			if err != nil {
				lh.log.Warn("Failed to marshal snapshot for stream", "error", err)
				return true
			}
			c.SSEvent("snapshot", string(raw))
			return true
		}
	})
}
