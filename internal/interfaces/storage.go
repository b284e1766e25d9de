package interfaces

import (
	"context"

	"github.com/ternarybob/venuescout/internal/models"
)

// QueueStorage - persistence for pipeline queue items
type QueueStorage interface {
	// Enqueue inserts a new pending item. Returns ErrDuplicateURL when a
	// queue item for the URL already exists (idempotent discovery re-runs).
	Enqueue(ctx context.Context, item *models.QueueItem) error

	GetByID(ctx context.Context, id string) (*models.QueueItem, error)
	GetByURL(ctx context.Context, url string) (*models.QueueItem, error)

	// ListByStatus returns items in the given status ordered by CreatedAt
	// ascending, up to limit (0 = no limit)
	ListByStatus(ctx context.Context, status models.QueueStatus, limit int) ([]*models.QueueItem, error)

	// ListForReview returns review items ordered by confidence descending
	ListForReview(ctx context.Context, limit int) ([]*models.QueueItem, error)

	// Claim atomically moves an item from the expected status to
	// processing. Returns false without error when another worker got
	// there first or the status changed underneath.
	Claim(ctx context.Context, id string, from models.QueueStatus) (bool, error)

	// Release moves a processing item back to the given status; used when
	// a stage decides not to handle a claimed item after all.
	Release(ctx context.Context, id string, to models.QueueStatus) error

	Update(ctx context.Context, item *models.QueueItem) error

	// Requeue moves a failed item back to pending, clearing stage output.
	// Terminal items (published, rejected) cannot be requeued.
	Requeue(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.QueueStats, error)
}

// VenueStorage - persistence for published venue and package records
type VenueStorage interface {
	InsertVenue(ctx context.Context, venue *models.Venue) error
	GetVenue(ctx context.Context, id string) (*models.Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*models.Venue, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListVenues(ctx context.Context, status models.VenueStatus, limit int) ([]*models.Venue, error)

	// InsertPackages bulk-inserts packages for a venue. Only called after
	// the venue insert succeeded.
	InsertPackages(ctx context.Context, packages []*models.PartyPackage) error
	GetPackagesByVenue(ctx context.Context, venueID string) ([]*models.PartyPackage, error)

	// DeleteVenue removes a venue and cascade-deletes its packages
	DeleteVenue(ctx context.Context, id string) error

	CountVenues(ctx context.Context) (int, error)
	CountPackages(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	QueueStorage() QueueStorage
	VenueStorage() VenueStorage
	Close() error
}
