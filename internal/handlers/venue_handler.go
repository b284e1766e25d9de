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

// VenueHandler exposes read access to the published directory.
type VenueHandler struct {
	venues interfaces.VenueStorage
	logger arbor.ILogger
}

// NewVenueHandler creates a venue handler.
func NewVenueHandler(venues interfaces.VenueStorage, logger arbor.ILogger) *VenueHandler {
	return &VenueHandler{venues: venues, logger: logger}
}

// ListHandler lists published venues.
// GET /api/venues?limit=50
func (h *VenueHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
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

	venues, err := h.venues.ListVenues(r.Context(), models.VenueStatusPublished, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list venues")
		WriteError(w, http.StatusInternalServerError, "failed to list venues")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(venues),
		"venues": venues,
	})
}

// GetHandler returns one venue by slug, with its packages.
// GET /api/venues/{slug}
func (h *VenueHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/venues/"), "/")
	if slug == "" {
		WriteError(w, http.StatusBadRequest, "venue slug is required")
		return
	}

	venue, err := h.venues.GetVenueBySlug(r.Context(), slug)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "venue not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("Failed to load venue")
		WriteError(w, http.StatusInternalServerError, "failed to load venue")
		return
	}

	packages, err := h.venues.GetPackagesByVenue(r.Context(), venue.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("venue_id", venue.ID).Msg("Failed to load packages")
		WriteError(w, http.StatusInternalServerError, "failed to load packages")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"venue":    venue,
		"packages": packages,
	})
}
