package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/handlers"
)

// Server manages the admin HTTP server and routes.
type Server struct {
	config *common.ServerConfig
	logger arbor.ILogger

	queueHandler  *handlers.QueueHandler
	reviewHandler *handlers.ReviewHandler
	venueHandler  *handlers.VenueHandler
	statusHandler *handlers.StatusHandler

	server *http.Server
}

// New creates a new HTTP server wired to the given handlers.
func New(config *common.ServerConfig, logger arbor.ILogger,
	queueHandler *handlers.QueueHandler,
	reviewHandler *handlers.ReviewHandler,
	venueHandler *handlers.VenueHandler,
	statusHandler *handlers.StatusHandler) *Server {

	s := &Server{
		config:        config,
		logger:        logger,
		queueHandler:  queueHandler,
		reviewHandler: reviewHandler,
		venueHandler:  venueHandler,
		statusHandler: statusHandler,
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.setupRoutes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
