package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// VenueStorage implements the VenueStorage interface for Badger
type VenueStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVenueStorage creates a new VenueStorage instance
func NewVenueStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VenueStorage {
	return &VenueStorage{
		db:     db,
		logger: logger,
	}
}

func (s *VenueStorage) InsertVenue(ctx context.Context, venue *models.Venue) error {
	if venue.ID == "" {
		return fmt.Errorf("venue ID is required")
	}
	if venue.Slug == "" {
		return fmt.Errorf("venue slug is required")
	}
	now := time.Now()
	if venue.CreatedAt.IsZero() {
		venue.CreatedAt = now
	}
	venue.UpdatedAt = now

	if err := s.db.Store().Insert(venue.ID, venue); err != nil {
		if errors.Is(err, badgerhold.ErrUniqueExists) {
			return fmt.Errorf("venue slug %q already exists: %w", venue.Slug, err)
		}
		return fmt.Errorf("failed to insert venue: %w", err)
	}
	return nil
}

func (s *VenueStorage) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.Store().Get(id, &venue); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &venue, nil
}

func (s *VenueStorage) GetVenueBySlug(ctx context.Context, slug string) (*models.Venue, error) {
	var venues []models.Venue
	if err := s.db.Store().Find(&venues, badgerhold.Where("Slug").Eq(slug)); err != nil {
		return nil, fmt.Errorf("failed to find venue by slug: %w", err)
	}
	if len(venues) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &venues[0], nil
}

func (s *VenueStorage) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := s.db.Store().Count(&models.Venue{}, badgerhold.Where("Slug").Eq(slug))
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return count > 0, nil
}

func (s *VenueStorage) ListVenues(ctx context.Context, status models.VenueStatus, limit int) ([]*models.Venue, error) {
	var query *badgerhold.Query
	if status != "" {
		query = badgerhold.Where("Status").Eq(status).SortBy("CreatedAt").Reverse()
	} else {
		query = badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var venues []models.Venue
	if err := s.db.Store().Find(&venues, query); err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	result := make([]*models.Venue, len(venues))
	for i := range venues {
		result[i] = &venues[i]
	}
	return result, nil
}

func (s *VenueStorage) InsertPackages(ctx context.Context, packages []*models.PartyPackage) error {
	for _, pkg := range packages {
		if pkg.ID == "" {
			return fmt.Errorf("package ID is required")
		}
		if pkg.VenueID == "" {
			return fmt.Errorf("package venue ID is required")
		}
		now := time.Now()
		if pkg.CreatedAt.IsZero() {
			pkg.CreatedAt = now
		}
		pkg.UpdatedAt = now

		if err := s.db.Store().Insert(pkg.ID, pkg); err != nil {
			return fmt.Errorf("failed to insert package %q: %w", pkg.Name, err)
		}
	}
	return nil
}

func (s *VenueStorage) GetPackagesByVenue(ctx context.Context, venueID string) ([]*models.PartyPackage, error) {
	var packages []models.PartyPackage
	if err := s.db.Store().Find(&packages, badgerhold.Where("VenueID").Eq(venueID).SortBy("CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to get packages for venue: %w", err)
	}

	result := make([]*models.PartyPackage, len(packages))
	for i := range packages {
		result[i] = &packages[i]
	}
	return result, nil
}

// DeleteVenue removes a venue and cascade-deletes its packages
func (s *VenueStorage) DeleteVenue(ctx context.Context, id string) error {
	if err := s.db.Store().DeleteMatching(&models.PartyPackage{}, badgerhold.Where("VenueID").Eq(id)); err != nil {
		return fmt.Errorf("failed to delete packages for venue %s: %w", id, err)
	}
	if err := s.db.Store().Delete(id, &models.Venue{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return nil
}

func (s *VenueStorage) CountVenues(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Venue{}, nil)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *VenueStorage) CountPackages(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.PartyPackage{}, nil)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
