package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the system status payload.
type StatusResponse struct {
	TotalRuns   int    `json:"totalRuns"`
	LastRunTime string `json:"lastRunTime"`
}

// GetStatus reports how many reconciliation runs have been recorded.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	count, lastAt, err := h.store.CountRuns()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{})
		return
	}

	resp := StatusResponse{TotalRuns: count}
	if !lastAt.IsZero() {
		resp.LastRunTime = lastAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
