package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
)

// Service runs the extraction stage: claim scraped queue items, send the
// cleaned page text to the model, and store the structured result. Items
// with a usable venue move to review; everything else moves to failed.
type Service struct {
	config *common.ExtractionConfig
	llm    interfaces.LLMService
	queue  interfaces.QueueStorage
	logger arbor.ILogger
}

// Result summarizes one extraction run.
type Result struct {
	Processed int
	Review    int
	Failed    int
	Skipped   int
}

// NewService creates an extraction service.
func NewService(config *common.ExtractionConfig, llm interfaces.LLMService, queue interfaces.QueueStorage, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		llm:    llm,
		queue:  queue,
		logger: logger,
	}
}

// Run processes up to BatchLimit scraped items sequentially, pausing
// ItemDelay between calls to stay under the provider's rate limits.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	items, err := s.queue.ListByStatus(ctx, models.StatusScraped, s.config.BatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scraped items: %w", err)
	}
	if len(items) == 0 {
		s.logger.Info().Msg("No scraped items to extract")
		return &Result{}, nil
	}

	s.logger.Info().
		Int("item_count", len(items)).
		Msg("Starting extraction run")

	result := &Result{}
	startTime := time.Now()
	delay := s.config.ItemDelayDuration()

	for i, item := range items {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		switch s.processItem(ctx, item) {
		case models.StatusReview:
			result.Processed++
			result.Review++
		case models.StatusFailed:
			result.Processed++
			result.Failed++
		default:
			result.Skipped++
		}
	}

	s.logger.Info().
		Int("processed", result.Processed).
		Int("review", result.Review).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Str("duration", time.Since(startTime).String()).
		Msg("Extraction run completed")

	return result, nil
}

// processItem extracts one item end to end. Returns the status the item
// ended in, or empty when the claim was lost or the update failed.
func (s *Service) processItem(ctx context.Context, item *models.QueueItem) models.QueueStatus {
	claimed, err := s.queue.Claim(ctx, item.ID, models.StatusScraped)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("Claim failed")
		return ""
	}
	if !claimed {
		s.logger.Debug().Str("item_id", item.ID).Msg("Item claimed elsewhere, skipping")
		return ""
	}

	now := time.Now()
	item.ProcessedAt = &now

	extracted, err := s.extract(ctx, item)
	if err != nil {
		item.Status = models.StatusFailed
		item.ErrorMessage = err.Error()
		s.logger.Warn().
			Err(err).
			Str("item_id", item.ID).
			Str("url", item.URL).
			Msg("Extraction failed")
	} else {
		extracted.ClampConfidence()
		item.ExtractedData = extracted
		confidence := extracted.ConfidenceScore
		item.Confidence = &confidence
		item.ErrorMessage = ""

		if extracted.HasVenueName() {
			item.Status = models.StatusReview
			s.logger.Debug().
				Str("item_id", item.ID).
				Str("venue", extracted.Venue.Name).
				Float64("confidence", confidence).
				Int("packages", len(extracted.Packages)).
				Msg("Extraction ready for review")
		} else {
			item.Status = models.StatusFailed
			item.ErrorMessage = "no venue identified in content"
			s.logger.Debug().
				Str("item_id", item.ID).
				Str("url", item.URL).
				Msg("Model found no venue in content")
		}
	}

	if err := s.queue.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("Failed to persist extraction result")
		// Put the claim back so the item is retried on the next run
		if relErr := s.queue.Release(ctx, item.ID, models.StatusScraped); relErr != nil {
			s.logger.Error().Err(relErr).Str("item_id", item.ID).Msg("Failed to release claimed item")
		}
		return ""
	}
	return item.Status
}

// extract cleans the item's content, queries the model, and parses the
// response into a validated extraction result.
func (s *Service) extract(ctx context.Context, item *models.QueueItem) (*models.ExtractionResult, error) {
	content := item.RawHTML
	if strings.TrimSpace(content) == "" {
		content = item.RawText
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("no scraped content to extract")
	}

	cleaned := CleanContent(content, item.URL, s.config.MaxContentChars)
	if cleaned == "" {
		return nil, fmt.Errorf("cleaned content is empty")
	}

	response, err := s.llm.Chat(ctx, buildMessages(cleaned))
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	return parseResponse(response)
}

// parseResponse turns a raw model response into a validated result.
// A JSON parse failure and a schema violation are reported as distinct
// errors so the queue records why an item failed.
func parseResponse(response string) (*models.ExtractionResult, error) {
	jsonStr := extractJSON(response)

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedResponse, err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSchemaViolation, err)
	}

	return &result, nil
}

// extractJSON extracts JSON from a model response, handling markdown code
// fences and leading prose.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		var jsonLines []string
		inCodeBlock := false

		for _, line := range lines {
			if strings.HasPrefix(line, "```") {
				if inCodeBlock {
					break
				}
				inCodeBlock = true
				continue
			}
			if inCodeBlock {
				jsonLines = append(jsonLines, line)
			}
		}

		if len(jsonLines) > 0 {
			return strings.Join(jsonLines, "\n")
		}
	}

	// No code fences; take the outermost JSON object if prose surrounds it
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx >= 0 && endIdx > startIdx {
		return response[startIdx : endIdx+1]
	}

	return response
}
