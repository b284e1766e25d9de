package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Queue
	mux.HandleFunc("/api/queue/stats", s.queueHandler.StatsHandler)
	mux.HandleFunc("/api/queue", s.queueHandler.ListHandler)
	mux.HandleFunc("/api/queue/", s.handleQueueRoutes) // POST /{id}/requeue

	// API routes - Review
	mux.HandleFunc("/api/review", s.reviewHandler.ListHandler)
	mux.HandleFunc("/api/review/", s.reviewHandler.DecisionHandler) // POST /{id}/approve|reject

	// API routes - Venues (published directory, read-only)
	mux.HandleFunc("/api/venues", s.venueHandler.ListHandler)
	mux.HandleFunc("/api/venues/", s.venueHandler.GetHandler) // GET /{slug}

	// API routes - Pipeline and system
	mux.HandleFunc("/api/pipeline/run", s.statusHandler.TriggerPipelineHandler)
	mux.HandleFunc("/api/status", s.statusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.statusHandler.VersionHandler)

	return mux
}

// handleQueueRoutes dispatches /api/queue/{id}/... subpaths
func (s *Server) handleQueueRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/requeue") {
		s.queueHandler.RequeueHandler(w, r)
		return
	}
	http.NotFound(w, r)
}
