package server

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/LucasTruppel/comissao-project/internal/api"
	"github.com/LucasTruppel/comissao-project/internal/commission"
	"github.com/LucasTruppel/comissao-project/internal/config"
	"github.com/LucasTruppel/comissao-project/internal/obs"
	"github.com/LucasTruppel/comissao-project/internal/store"
)

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	store  *store.Store
	logger zerolog.Logger
}

// NewServer wires the engine, run-history store and API routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := obs.NewLogger(cfg.Log.Format, cfg.Log.Level)

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	runStore, err := store.New(filepath.Join(dataDir, "comissao.db"))
	if err != nil {
		return nil, err
	}

	engine := commission.NewEngine(cfg.Commission.RenewalPartnerDocument)
	handler := api.NewHandler(engine, runStore, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obs.RequestLogger(logger))

	s := &Server{
		router: router,
		store:  runStore,
		logger: logger,
	}
	s.setupRoutes(handler)

	return s, nil
}

func (s *Server) setupRoutes(handler *api.Handler) {
	// CORS: the React front runs on its own origin.
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.store.Close()
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
