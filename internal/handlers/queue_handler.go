package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
)

// QueueHandler exposes queue inspection and requeue operations.
type QueueHandler struct {
	queue  interfaces.QueueStorage
	logger arbor.ILogger
}

// NewQueueHandler creates a queue handler.
func NewQueueHandler(queue interfaces.QueueStorage, logger arbor.ILogger) *QueueHandler {
	return &QueueHandler{queue: queue, logger: logger}
}

// StatsHandler returns per-status item counts.
// GET /api/queue/stats
func (h *QueueHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to collect queue stats")
		WriteError(w, http.StatusInternalServerError, "failed to collect queue stats")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// ListHandler lists queue items, optionally filtered by status.
// GET /api/queue?status=failed&limit=20
func (h *QueueHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := models.QueueStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusPending
	}

	valid := false
	for _, s := range models.ValidStatuses() {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		WriteError(w, http.StatusBadRequest, "unknown status: "+string(status))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	items, err := h.queue.ListByStatus(r.Context(), status, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("status", string(status)).Msg("Failed to list queue items")
		WriteError(w, http.StatusInternalServerError, "failed to list queue items")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"count":  len(items),
		"items":  items,
	})
}

// RequeueHandler moves a failed item back to pending.
// POST /api/queue/{id}/requeue
func (h *QueueHandler) RequeueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/queue/"), "/requeue")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "item id is required")
		return
	}

	err := h.queue.Requeue(r.Context(), id)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "queue item not found")
	case errors.Is(err, interfaces.ErrTerminalStatus):
		WriteError(w, http.StatusConflict, "item is in a terminal status")
	case err != nil:
		h.logger.Error().Err(err).Str("item_id", id).Msg("Requeue failed")
		WriteError(w, http.StatusInternalServerError, "requeue failed")
	default:
		WriteSuccess(w, "item requeued")
	}
}
