package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/services/review"
)

// ReviewHandler exposes the human review queue: listing pending
// extractions and acting on approve/reject decisions.
type ReviewHandler struct {
	service *review.Service
	logger  arbor.ILogger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(service *review.Service, logger arbor.ILogger) *ReviewHandler {
	return &ReviewHandler{service: service, logger: logger}
}

// ListHandler lists extractions awaiting review, highest confidence first.
// GET /api/review?limit=20
func (h *ReviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
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

	pending, err := h.service.ListPending(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list review items")
		WriteError(w, http.StatusInternalServerError, "failed to list review items")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(pending),
		"items": pending,
	})
}

// DecisionHandler routes /api/review/{id}/approve and /api/review/{id}/reject.
func (h *ReviewHandler) DecisionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/review/")
	switch {
	case strings.HasSuffix(path, "/approve"):
		h.approve(w, r, strings.TrimSuffix(path, "/approve"))
	case strings.HasSuffix(path, "/reject"):
		h.reject(w, r, strings.TrimSuffix(path, "/reject"))
	default:
		WriteError(w, http.StatusNotFound, "unknown review action")
	}
}

func (h *ReviewHandler) approve(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		WriteError(w, http.StatusBadRequest, "item id is required")
		return
	}

	venue, err := h.service.Approve(r.Context(), id)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "queue item not found")
	case errors.Is(err, interfaces.ErrNotClaimable):
		WriteError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.logger.Error().Err(err).Str("item_id", id).Msg("Approve failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"venue":  venue,
		})
	}
}

func (h *ReviewHandler) reject(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		WriteError(w, http.StatusBadRequest, "item id is required")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Reason) == "" {
		WriteError(w, http.StatusBadRequest, "rejection reason is required")
		return
	}

	err := h.service.Reject(r.Context(), id, body.Reason)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "queue item not found")
	case errors.Is(err, interfaces.ErrNotClaimable):
		WriteError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.logger.Error().Err(err).Str("item_id", id).Msg("Reject failed")
		WriteError(w, http.StatusInternalServerError, "reject failed")
	default:
		WriteSuccess(w, "item rejected")
	}
}
