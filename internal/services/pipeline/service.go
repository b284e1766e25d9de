package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"github.com/ternarybob/venuescout/internal/services/discovery"
	"github.com/ternarybob/venuescout/internal/services/extraction"
	"github.com/ternarybob/venuescout/internal/services/scraper"
)

// Service chains the automated pipeline stages: discover, scrape, extract.
// Review stays out of the chain; publishing is a human decision.
type Service struct {
	discovery  *discovery.Service
	scraper    *scraper.Service
	extraction *extraction.Service
	queue      interfaces.QueueStorage
	logger     arbor.ILogger
}

// RunStats aggregates the stage results of one full pipeline run.
type RunStats struct {
	Discovery  *discovery.Result  `json:"discovery,omitempty"`
	Scrape     *scraper.Result    `json:"scrape,omitempty"`
	Extraction *extraction.Result `json:"extraction,omitempty"`
	Queue      *models.QueueStats `json:"queue"`
	Duration   time.Duration      `json:"duration"`
}

// NewService creates the pipeline orchestrator.
func NewService(discoverySvc *discovery.Service, scraperSvc *scraper.Service, extractionSvc *extraction.Service, queue interfaces.QueueStorage, logger arbor.ILogger) *Service {
	return &Service{
		discovery:  discoverySvc,
		scraper:    scraperSvc,
		extraction: extractionSvc,
		queue:      queue,
		logger:     logger,
	}
}

// Run executes the stages in order. Each stage works the queue the previous
// one fed, so a partially failed stage still leaves usable work behind.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	startTime := time.Now()
	stats := &RunStats{}

	s.logger.Info().Msg("Starting full pipeline run")

	discoveryResult, err := s.discovery.Run(ctx)
	if err != nil {
		return s.finish(ctx, stats, startTime), fmt.Errorf("discovery stage failed: %w", err)
	}
	stats.Discovery = discoveryResult

	scrapeResult, err := s.scraper.Run(ctx)
	if err != nil {
		return s.finish(ctx, stats, startTime), fmt.Errorf("scrape stage failed: %w", err)
	}
	stats.Scrape = scrapeResult

	extractionResult, err := s.extraction.Run(ctx)
	if err != nil {
		return s.finish(ctx, stats, startTime), fmt.Errorf("extraction stage failed: %w", err)
	}
	stats.Extraction = extractionResult

	return s.finish(ctx, stats, startTime), nil
}

// finish stamps the duration and attaches a queue snapshot.
func (s *Service) finish(ctx context.Context, stats *RunStats, startTime time.Time) *RunStats {
	stats.Duration = time.Since(startTime)

	queueStats, err := s.queue.Stats(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to collect queue stats")
	} else {
		stats.Queue = queueStats
	}

	review := 0
	if stats.Queue != nil {
		review = stats.Queue.Review
	}
	s.logger.Info().
		Int("awaiting_review", review).
		Str("duration", stats.Duration.String()).
		Msg("Pipeline run finished")

	return stats
}
