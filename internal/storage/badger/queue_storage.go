package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// QueueStorage implements the QueueStorage interface for Badger
type QueueStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQueueStorage creates a new QueueStorage instance
func NewQueueStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QueueStorage {
	return &QueueStorage{
		db:     db,
		logger: logger,
	}
}

func (s *QueueStorage) Enqueue(ctx context.Context, item *models.QueueItem) error {
	if item.ID == "" {
		return fmt.Errorf("queue item ID is required")
	}
	if item.URL == "" {
		return fmt.Errorf("queue item URL is required")
	}
	if item.Status == "" {
		item.Status = models.StatusPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(item.ID, item); err != nil {
		if errors.Is(err, badgerhold.ErrUniqueExists) {
			return interfaces.ErrDuplicateURL
		}
		return fmt.Errorf("failed to enqueue item: %w", err)
	}
	return nil
}

func (s *QueueStorage) GetByID(ctx context.Context, id string) (*models.QueueItem, error) {
	var item models.QueueItem
	if err := s.db.Store().Get(id, &item); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}
	return &item, nil
}

func (s *QueueStorage) GetByURL(ctx context.Context, url string) (*models.QueueItem, error) {
	var items []models.QueueItem
	if err := s.db.Store().Find(&items, badgerhold.Where("URL").Eq(url)); err != nil {
		return nil, fmt.Errorf("failed to find queue item by URL: %w", err)
	}
	if len(items) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &items[0], nil
}

func (s *QueueStorage) ListByStatus(ctx context.Context, status models.QueueStatus, limit int) ([]*models.QueueItem, error) {
	query := badgerhold.Where("Status").Eq(status).SortBy("CreatedAt")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.QueueItem
	if err := s.db.Store().Find(&items, query); err != nil {
		return nil, fmt.Errorf("failed to list queue items by status: %w", err)
	}

	result := make([]*models.QueueItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

func (s *QueueStorage) ListForReview(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	var items []models.QueueItem
	if err := s.db.Store().Find(&items, badgerhold.Where("Status").Eq(models.StatusReview)); err != nil {
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}

	// Confidence lives behind a pointer, so sort in memory rather than via
	// the index. Nil confidence sinks to the bottom.
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := -1.0, -1.0
		if items[i].Confidence != nil {
			ci = *items[i].Confidence
		}
		if items[j].Confidence != nil {
			cj = *items[j].Confidence
		}
		return ci > cj
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	result := make([]*models.QueueItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

// Claim performs a compare-and-swap on the item status inside a single
// Badger transaction. Two workers racing for the same row see exactly one
// winner; the loser gets (false, nil) and moves on.
func (s *QueueStorage) Claim(ctx context.Context, id string, from models.QueueStatus) (bool, error) {
	claimed := false
	err := s.db.Store().Badger().Update(func(tx *badgerdb.Txn) error {
		var item models.QueueItem
		if err := s.db.Store().TxGet(tx, id, &item); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return interfaces.ErrNotFound
			}
			return err
		}
		if item.Status != from {
			return nil
		}
		item.Status = models.StatusProcessing
		claimed = true
		return s.db.Store().TxUpdate(tx, id, &item)
	})
	if err != nil {
		return false, fmt.Errorf("failed to claim queue item %s: %w", id, err)
	}
	return claimed, nil
}

func (s *QueueStorage) Release(ctx context.Context, id string, to models.QueueStatus) error {
	err := s.db.Store().Badger().Update(func(tx *badgerdb.Txn) error {
		var item models.QueueItem
		if err := s.db.Store().TxGet(tx, id, &item); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return interfaces.ErrNotFound
			}
			return err
		}
		if item.Status != models.StatusProcessing {
			return interfaces.ErrNotClaimable
		}
		item.Status = to
		return s.db.Store().TxUpdate(tx, id, &item)
	})
	if err != nil {
		return fmt.Errorf("failed to release queue item %s: %w", id, err)
	}
	return nil
}

func (s *QueueStorage) Update(ctx context.Context, item *models.QueueItem) error {
	if item.ID == "" {
		return fmt.Errorf("queue item ID is required")
	}
	if err := s.db.Store().Update(item.ID, item); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to update queue item: %w", err)
	}
	return nil
}

func (s *QueueStorage) Requeue(ctx context.Context, id string) error {
	err := s.db.Store().Badger().Update(func(tx *badgerdb.Txn) error {
		var item models.QueueItem
		if err := s.db.Store().TxGet(tx, id, &item); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return interfaces.ErrNotFound
			}
			return err
		}
		if item.Status.IsTerminal() {
			return interfaces.ErrTerminalStatus
		}
		item.Status = models.StatusPending
		item.RawHTML = ""
		item.RawText = ""
		item.ExtractedData = nil
		item.Confidence = nil
		item.ErrorMessage = ""
		item.ProcessedAt = nil
		return s.db.Store().TxUpdate(tx, id, &item)
	})
	if err != nil {
		return fmt.Errorf("failed to requeue item %s: %w", id, err)
	}
	return nil
}

func (s *QueueStorage) Delete(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.QueueItem{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	return nil
}

func (s *QueueStorage) Stats(ctx context.Context) (*models.QueueStats, error) {
	stats := &models.QueueStats{}
	for _, status := range models.ValidStatuses() {
		count, err := s.db.Store().Count(&models.QueueItem{}, badgerhold.Where("Status").Eq(status))
		if err != nil {
			return nil, fmt.Errorf("failed to count items with status %s: %w", status, err)
		}
		n := int(count)
		switch status {
		case models.StatusPending:
			stats.Pending = n
		case models.StatusProcessing:
			stats.Processing = n
		case models.StatusScraped:
			stats.Scraped = n
		case models.StatusReview:
			stats.Review = n
		case models.StatusPublished:
			stats.Published = n
		case models.StatusRejected:
			stats.Rejected = n
		case models.StatusFailed:
			stats.Failed = n
		}
		stats.Total += n
	}
	return stats, nil
}
