package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/services/pipeline"
)

// StatusHandler reports application status and triggers pipeline runs.
type StatusHandler struct {
	storage   interfaces.StorageManager
	scheduler *pipeline.Scheduler
	logger    arbor.ILogger
}

// NewStatusHandler creates a status handler. scheduler may be nil when the
// server runs without scheduled pipelines.
func NewStatusHandler(storage interfaces.StorageManager, scheduler *pipeline.Scheduler, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{storage: storage, scheduler: scheduler, logger: logger}
}

// GetStatusHandler returns queue and directory counts.
// GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	stats, err := h.storage.QueueStorage().Stats(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to collect queue stats")
		WriteError(w, http.StatusInternalServerError, "failed to collect status")
		return
	}

	venueCount, err := h.storage.VenueStorage().CountVenues(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count venues")
		WriteError(w, http.StatusInternalServerError, "failed to collect status")
		return
	}
	packageCount, err := h.storage.VenueStorage().CountPackages(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count packages")
		WriteError(w, http.StatusInternalServerError, "failed to collect status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":  common.Version,
		"queue":    stats,
		"venues":   venueCount,
		"packages": packageCount,
	})
}

// TriggerPipelineHandler starts an immediate pipeline run in the background.
// POST /api/pipeline/run
func (h *StatusHandler) TriggerPipelineHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if h.scheduler == nil {
		WriteError(w, http.StatusServiceUnavailable, "pipeline is not configured on this server")
		return
	}

	h.scheduler.RunNow()
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "started",
		"message": "pipeline run triggered",
	})
}

// VersionHandler returns build information.
// GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
