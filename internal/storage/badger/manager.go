package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	queue  interfaces.QueueStorage
	venue  interfaces.VenueStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		queue:  NewQueueStorage(db, logger),
		venue:  NewVenueStorage(db, logger),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// QueueStorage returns the queue storage interface
func (m *Manager) QueueStorage() interfaces.QueueStorage {
	return m.queue
}

// VenueStorage returns the venue storage interface
func (m *Manager) VenueStorage() interfaces.VenueStorage {
	return m.venue
}

// Close closes the underlying database
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	return m.db.Close()
}
