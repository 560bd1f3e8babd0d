package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"roulette/config"
	"roulette/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP front end for the roulette service
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
}

// NewServer builds the router and wires the roulette handler
func NewServer(cfg *config.Config, roulette service.RouletteService) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := NewRouletteHandler(roulette)
	SetupRoutes(engine, cfg, handler)

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// SetupRoutes registers the roulette API routes
func SetupRoutes(engine *gin.Engine, cfg *config.Config, handler *RouletteHandler) {
	api := engine.Group("/api")
	{
		roulette := api.Group("/roulette")
		{
			roulette.GET("/status", OptionalAuth(cfg.JWTSecret), handler.GetStatus)
			roulette.POST("/spin", RequireAuth(cfg.JWTSecret), handler.Spin)
		}
	}
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
