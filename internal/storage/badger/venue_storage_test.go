package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
)

func newTestVenue(name, slug string) *models.Venue {
	return &models.Venue{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		Status:    models.VenueStatusPublished,
		SourceURL: "https://" + slug + ".co.uk",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestInsertVenueUniqueSlug(t *testing.T) {
	db := newTestDB(t)
	storage := NewVenueStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.InsertVenue(ctx, newTestVenue("Flip Out London", "flip-out-london")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err := storage.InsertVenue(ctx, newTestVenue("Flip Out London", "flip-out-london"))
	if err == nil {
		t.Fatal("expected error inserting duplicate slug")
	}
}

func TestSlugExists(t *testing.T) {
	db := newTestDB(t)
	storage := NewVenueStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.InsertVenue(ctx, newTestVenue("Flip Out London", "flip-out-london")); err != nil {
		t.Fatal(err)
	}

	exists, err := storage.SlugExists(ctx, "flip-out-london")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}

	exists, err = storage.SlugExists(ctx, "flip-out-london-2")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("expected slug not to exist")
	}
}

func TestGetVenueBySlug(t *testing.T) {
	db := newTestDB(t)
	storage := NewVenueStorage(db, arbor.NewLogger())
	ctx := context.Background()

	venue := newTestVenue("Flip Out London", "flip-out-london")
	if err := storage.InsertVenue(ctx, venue); err != nil {
		t.Fatal(err)
	}

	got, err := storage.GetVenueBySlug(ctx, "flip-out-london")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != venue.ID || got.Name != "Flip Out London" {
		t.Errorf("got wrong venue: %+v", got)
	}

	_, err = storage.GetVenueBySlug(ctx, "nope")
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPackagesByVenue(t *testing.T) {
	db := newTestDB(t)
	storage := NewVenueStorage(db, arbor.NewLogger())
	ctx := context.Background()

	venue := newTestVenue("Flip Out London", "flip-out-london")
	if err := storage.InsertVenue(ctx, venue); err != nil {
		t.Fatal(err)
	}

	basic := 180.0
	ultimate := 280.0
	packages := []*models.PartyPackage{
		{ID: uuid.New().String(), VenueID: venue.ID, Name: "Basic Bounce", BasePrice: &basic, CreatedAt: time.Now()},
		{ID: uuid.New().String(), VenueID: venue.ID, Name: "Ultimate Party", BasePrice: &ultimate, CreatedAt: time.Now()},
	}
	if err := storage.InsertPackages(ctx, packages); err != nil {
		t.Fatalf("insert packages failed: %v", err)
	}

	got, err := storage.GetPackagesByVenue(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(got))
	}

	count, err := storage.CountPackages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("package count = %d, want 2", count)
	}
}

func TestDeleteVenueCascades(t *testing.T) {
	db := newTestDB(t)
	storage := NewVenueStorage(db, arbor.NewLogger())
	ctx := context.Background()

	venue := newTestVenue("Flip Out London", "flip-out-london")
	if err := storage.InsertVenue(ctx, venue); err != nil {
		t.Fatal(err)
	}
	if err := storage.InsertPackages(ctx, []*models.PartyPackage{
		{ID: uuid.New().String(), VenueID: venue.ID, Name: "Basic Bounce", CreatedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}

	if err := storage.DeleteVenue(ctx, venue.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err := storage.GetVenue(ctx, venue.ID)
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	packages, err := storage.GetPackagesByVenue(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(packages) != 0 {
		t.Errorf("expected 0 packages after cascade delete, got %d", len(packages))
	}
}
