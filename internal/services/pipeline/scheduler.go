package pipeline

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Scheduler runs the full pipeline on a cron schedule.
type Scheduler struct {
	service *Service
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a pipeline scheduler.
func NewScheduler(service *Service, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}
}

// Start begins scheduled pipeline runs.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		// Default: every 6 hours
		schedule = "0 0 */6 * * *"
	}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runPipeline()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Pipeline scheduler started")

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Pipeline scheduler stopped")
}

// RunNow triggers an immediate pipeline run.
func (s *Scheduler) RunNow() {
	s.logger.Info().Msg("Triggering immediate pipeline run")
	go s.runPipeline()
}

func (s *Scheduler) runPipeline() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	s.logger.Info().Msg("Starting scheduled pipeline run")

	stats, err := s.service.Run(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("Scheduled pipeline run failed")
		return
	}

	var enqueued, scraped, review int
	if stats.Discovery != nil {
		enqueued = stats.Discovery.Enqueued
	}
	if stats.Scrape != nil {
		scraped = stats.Scrape.Scraped
	}
	if stats.Extraction != nil {
		review = stats.Extraction.Review
	}

	s.logger.Info().
		Int("enqueued", enqueued).
		Int("scraped", scraped).
		Int("review", review).
		Str("duration", stats.Duration.String()).
		Msg("Scheduled pipeline run completed")
}
