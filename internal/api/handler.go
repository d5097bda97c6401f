package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/LucasTruppel/comissao-project/internal/commission"
	"github.com/LucasTruppel/comissao-project/internal/store"
)

// Handler bundles the API dependencies.
type Handler struct {
	engine *commission.Engine
	store  *store.Store
	logger zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(engine *commission.Engine, store *store.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// commission reconciliation
	router.POST("/comissao/calcular", h.Calculate)

	// run history
	router.GET("/runs", h.ListRuns)

	// system status
	router.GET("/status", h.GetStatus)
}
