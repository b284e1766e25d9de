package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
)

// Service implements the review stage: listing extraction results for a
// human decision and turning approvals into published venue records.
type Service struct {
	config *common.ReviewConfig
	queue  interfaces.QueueStorage
	venues interfaces.VenueStorage
	logger arbor.ILogger
}

// PendingItem is one queue item awaiting review, annotated with whether its
// confidence clears the configured threshold.
type PendingItem struct {
	Item          *models.QueueItem `json:"item"`
	LowConfidence bool              `json:"low_confidence"`
}

// NewService creates a review service.
func NewService(config *common.ReviewConfig, queue interfaces.QueueStorage, venues interfaces.VenueStorage, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		queue:  queue,
		venues: venues,
		logger: logger,
	}
}

// ListPending returns review items ordered by confidence descending.
// Items below MinConfidence stay listed but carry a low-confidence flag;
// the threshold informs the reviewer, it never auto-rejects.
func (s *Service) ListPending(ctx context.Context, limit int) ([]*PendingItem, error) {
	items, err := s.queue.ListForReview(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}

	pending := make([]*PendingItem, 0, len(items))
	for _, item := range items {
		low := item.Confidence == nil || *item.Confidence < s.config.MinConfidence
		pending = append(pending, &PendingItem{Item: item, LowConfidence: low})
	}
	return pending, nil
}

// Approve publishes one review item: a venue record is created from the
// extraction, its packages are attached, and the item moves to published.
// When the venue insert fails the item stays in review so the reviewer can
// retry; a package insert failure after a committed venue is reported but
// leaves the venue in place.
func (s *Service) Approve(ctx context.Context, itemID string) (*models.Venue, error) {
	item, err := s.queue.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != models.StatusReview {
		return nil, fmt.Errorf("%w: item is %s, not review", interfaces.ErrNotClaimable, item.Status)
	}
	if item.ExtractedData == nil || !item.ExtractedData.HasVenueName() {
		return nil, fmt.Errorf("item %s has no usable venue extraction", itemID)
	}

	slug, err := uniqueSlug(ctx, s.venues, item.ExtractedData.Venue.Name)
	if err != nil {
		return nil, err
	}

	venueStatus := models.VenueStatusPublished
	if s.config.PublishStatus == string(models.VenueStatusDraft) {
		venueStatus = models.VenueStatusDraft
	}

	venue := buildVenue(item, slug, venueStatus)
	if err := s.venues.InsertVenue(ctx, venue); err != nil {
		// Item stays in review; approval can be retried
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	packages := buildPackages(venue.ID, item.ExtractedData.Packages)
	if len(packages) > 0 {
		if err := s.venues.InsertPackages(ctx, packages); err != nil {
			s.logger.Error().
				Err(err).
				Str("venue_id", venue.ID).
				Str("item_id", item.ID).
				Msg("Venue created but package insert failed")
			return venue, fmt.Errorf("venue %s created but packages failed: %w", venue.ID, err)
		}
	}

	now := time.Now()
	item.Status = models.StatusPublished
	item.ReviewedAt = &now
	if err := s.queue.Update(ctx, item); err != nil {
		s.logger.Error().
			Err(err).
			Str("item_id", item.ID).
			Msg("Venue published but queue item update failed")
		return venue, err
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Str("venue_id", venue.ID).
		Str("slug", venue.Slug).
		Int("packages", len(packages)).
		Msg("Venue approved and published")

	return venue, nil
}

// Reject moves a review item to rejected with the reviewer's reason.
// The extraction output is kept for audit.
func (s *Service) Reject(ctx context.Context, itemID, reason string) error {
	item, err := s.queue.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.Status != models.StatusReview {
		return fmt.Errorf("%w: item is %s, not review", interfaces.ErrNotClaimable, item.Status)
	}

	now := time.Now()
	item.Status = models.StatusRejected
	item.RejectionReason = reason
	item.ReviewedAt = &now
	if err := s.queue.Update(ctx, item); err != nil {
		return err
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Str("reason", reason).
		Msg("Review item rejected")

	return nil
}

// buildVenue maps an approved extraction onto a venue record.
func buildVenue(item *models.QueueItem, slug string, status models.VenueStatus) *models.Venue {
	extracted := item.ExtractedData.Venue
	now := time.Now()

	venue := &models.Venue{
		ID:           uuid.New().String(),
		Slug:         slug,
		Name:         extracted.Name,
		AddressLine1: extracted.AddressLine1,
		City:         extracted.City,
		Postcode:     extracted.Postcode,
		Country:      "GB",

		ParkingFree: extracted.ParkingFree,
		MaxChildren: extracted.MaxChildren,
		MaxAdults:   extracted.MaxAdults,
		MinAge:      extracted.MinAge,
		MaxAge:      extracted.MaxAge,

		VenueType:            extracted.VenueType,
		SafetyCertifications: extracted.SafetyCertifications,
		StaffDBSChecked:      extracted.StaffDBSChecked,
		FirstAidTrained:      extracted.FirstAidTrained,

		FoodProvided:          extracted.FoodProvided,
		OutsideFoodAllowed:    extracted.OutsideFoodAllowed,
		AllergyAccommodations: extracted.AllergyAccommodations,

		PrivatePartyRoom: extracted.PrivatePartyRoom,
		AdultsMustStay:   extracted.AdultsMustStay,

		Status:    status,
		SourceURL: item.URL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if extracted.Description != nil {
		venue.Description = *extracted.Description
	}
	if extracted.AddressLine2 != nil {
		venue.AddressLine2 = *extracted.AddressLine2
	}
	if extracted.Borough != nil {
		venue.Borough = *extracted.Borough
	}
	if extracted.Phone != nil {
		venue.Phone = *extracted.Phone
	}
	if extracted.Email != nil {
		venue.Email = *extracted.Email
	}
	if extracted.Website != nil {
		venue.Website = *extracted.Website
	}
	if extracted.ParkingInfo != nil {
		venue.ParkingInfo = *extracted.ParkingInfo
	}
	if extracted.AllergyInfo != nil {
		venue.AllergyInfo = *extracted.AllergyInfo
	}

	return venue
}

// buildPackages maps extracted packages onto records owned by the venue.
func buildPackages(venueID string, extracted []models.ExtractedPackage) []*models.PartyPackage {
	packages := make([]*models.PartyPackage, 0, len(extracted))
	now := time.Now()
	for _, p := range extracted {
		packages = append(packages, &models.PartyPackage{
			ID:          uuid.New().String(),
			VenueID:     venueID,
			Name:        p.Name,
			Description: p.Description,

			BasePrice:            p.BasePrice,
			BaseIncludesChildren: p.BaseIncludesChildren,
			AdditionalChildPrice: p.AdditionalChildPrice,
			DurationMinutes:      p.DurationMinutes,

			ActivitiesIncluded: p.ActivitiesIncluded,
			FoodIncluded:       p.FoodIncluded,
			AdditionalCosts:    p.AdditionalCosts,

			DepositRequired:    p.DepositRequired,
			AdvanceBookingDays: p.AdvanceBookingDays,

			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return packages
}
