package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
)

// Service runs the scraping stage: claim pending queue items, render their
// candidate pages, and store the best page's HTML and text back on the item.
type Service struct {
	config   *common.ScraperConfig
	renderer interfaces.PageRenderer
	queue    interfaces.QueueStorage
	logger   arbor.ILogger
}

// Result summarizes one scraping run.
type Result struct {
	Processed int
	Scraped   int
	Failed    int
	Skipped   int
}

// NewService creates a scraper service.
func NewService(config *common.ScraperConfig, renderer interfaces.PageRenderer, queue interfaces.QueueStorage, logger arbor.ILogger) *Service {
	return &Service{
		config:   config,
		renderer: renderer,
		queue:    queue,
		logger:   logger,
	}
}

// Run claims up to MaxItems pending items and scrapes them in batches of
// BatchSize concurrent workers.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	items, err := s.queue.ListByStatus(ctx, models.StatusPending, s.config.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}
	if len(items) == 0 {
		s.logger.Info().Msg("No pending items to scrape")
		return &Result{}, nil
	}

	batchSize := s.config.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}

	s.logger.Info().
		Int("item_count", len(items)).
		Int("batch_size", batchSize).
		Msg("Starting scrape run")

	result := &Result{}
	var mu sync.Mutex
	startTime := time.Now()

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(item *models.QueueItem) {
				defer wg.Done()

				outcome := s.processItem(ctx, item)

				mu.Lock()
				defer mu.Unlock()
				switch outcome {
				case models.StatusScraped:
					result.Processed++
					result.Scraped++
				case models.StatusFailed:
					result.Processed++
					result.Failed++
				default:
					result.Skipped++
				}
			}(item)
		}
		wg.Wait()

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	s.logger.Info().
		Int("processed", result.Processed).
		Int("scraped", result.Scraped).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Str("duration", time.Since(startTime).String()).
		Msg("Scrape run completed")

	return result, nil
}

// processItem scrapes one item end to end. Returns the status the item
// ended in, or empty when the claim was lost.
func (s *Service) processItem(ctx context.Context, item *models.QueueItem) models.QueueStatus {
	claimed, err := s.queue.Claim(ctx, item.ID, models.StatusPending)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("Claim failed")
		return ""
	}
	if !claimed {
		s.logger.Debug().Str("item_id", item.ID).Msg("Item claimed elsewhere, skipping")
		return ""
	}

	best, errs := s.scrapeCandidates(ctx, item.URL)

	now := time.Now()
	item.ProcessedAt = &now

	if best == nil {
		item.Status = models.StatusFailed
		item.ErrorMessage = strings.Join(errs, "; ")
		if item.ErrorMessage == "" {
			item.ErrorMessage = "no candidate page produced content"
		}
		s.logger.Warn().
			Str("item_id", item.ID).
			Str("url", item.URL).
			Str("error", item.ErrorMessage).
			Msg("Scrape failed for all candidate pages")
	} else {
		item.Status = models.StatusScraped
		item.RawHTML = best.HTML
		item.RawText = best.Text
		item.ErrorMessage = ""
		s.logger.Debug().
			Str("item_id", item.ID).
			Str("url", best.URL).
			Int("text_length", len(best.Text)).
			Msg("Scraped candidate page")
	}

	if err := s.queue.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("Failed to persist scrape result")
		// Put the claim back so the item is retried on the next run
		if relErr := s.queue.Release(ctx, item.ID, models.StatusPending); relErr != nil {
			s.logger.Error().Err(relErr).Str("item_id", item.ID).Msg("Failed to release claimed item")
		}
		return ""
	}
	return item.Status
}

// scrapeCandidates renders the base URL plus each configured party path.
// A page containing a party keyword wins immediately; otherwise the page
// with the most text wins. Render failures are collected, not fatal.
func (s *Service) scrapeCandidates(ctx context.Context, baseURL string) (*interfaces.RenderedPage, []string) {
	var best *interfaces.RenderedPage
	var errs []string

	for _, path := range s.config.PagePaths {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err().Error())
			break
		}

		target := common.JoinPath(baseURL, path)

		page, err := s.renderer.Render(ctx, target)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		if s.containsKeyword(page.Text) {
			// Party-specific page found, no need to try the rest
			return page, errs
		}
		if best == nil || len(page.Text) > len(best.Text) {
			best = page
		}
	}

	return best, errs
}

func (s *Service) containsKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range s.config.Keywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
