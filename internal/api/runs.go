package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LucasTruppel/comissao-project/internal/store"
)

// ListRuns returns the most recent reconciliation runs.
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível consultar o histórico"})
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
