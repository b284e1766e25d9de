package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"golang.org/x/time/rate"
)

// Service runs the discovery stage: fan search queries out to the search
// provider and enqueue every new candidate URL as a pending queue item.
type Service struct {
	config   *common.DiscoveryConfig
	provider interfaces.SearchProvider
	queue    interfaces.QueueStorage
	logger   arbor.ILogger
	limiter  *rate.Limiter
}

// Result summarizes one discovery run. A run succeeds as long as the queue
// is reachable; individual query failures are counted, not fatal.
type Result struct {
	QueriesRun    int
	QueriesFailed int
	URLsFound     int
	Enqueued      int
	Duplicates    int
	Denied        int
}

// NewService creates a discovery service.
func NewService(config *common.DiscoveryConfig, provider interfaces.SearchProvider, queue interfaces.QueueStorage, logger arbor.ILogger) *Service {
	delay := config.QueryDelayDuration()
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	return &Service{
		config:   config,
		provider: provider,
		queue:    queue,
		logger:   logger,
		limiter:  limiter,
	}
}

// Run executes every configured query in order. Each query waits on the
// rate limiter before hitting the provider, so back-to-back runs stay
// within the provider's comfort zone.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	sets, err := LoadQuerySets(s.config.QueriesDir)
	if err != nil {
		return nil, err
	}
	queries := CollectQueries(s.config.Queries, sets)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no discovery queries configured")
	}

	s.logger.Info().
		Int("query_count", len(queries)).
		Int("query_sets", len(sets)).
		Msg("Starting discovery run")

	result := &Result{}
	startTime := time.Now()

	for _, query := range queries {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, err
		}

		result.QueriesRun++
		if err := s.runQuery(ctx, query, result); err != nil {
			// One bad query must not sink the rest of the run
			result.QueriesFailed++
			s.logger.Warn().
				Err(err).
				Str("query", query).
				Msg("Discovery query failed, continuing")
		}
	}

	s.logger.Info().
		Int("queries_run", result.QueriesRun).
		Int("queries_failed", result.QueriesFailed).
		Int("urls_found", result.URLsFound).
		Int("enqueued", result.Enqueued).
		Int("duplicates", result.Duplicates).
		Int("denied", result.Denied).
		Str("duration", time.Since(startTime).String()).
		Msg("Discovery run completed")

	return result, nil
}

// runQuery executes one search and enqueues its results.
func (s *Service) runQuery(ctx context.Context, query string, result *Result) error {
	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return err
	}

	kept := 0
	for _, sr := range results {
		if s.config.MaxResults > 0 && kept >= s.config.MaxResults {
			break
		}

		normalized, err := common.NormalizeURL(sr.URL)
		if err != nil {
			s.logger.Debug().Str("url", sr.URL).Msg("Skipping unparseable result URL")
			continue
		}
		result.URLsFound++
		kept++

		if common.HostMatchesAny(normalized, s.config.Denylist) {
			result.Denied++
			s.logger.Debug().Str("url", normalized).Msg("Skipping denylisted host")
			continue
		}

		item := &models.QueueItem{
			ID:          uuid.New().String(),
			URL:         normalized,
			SearchQuery: query,
			Status:      models.StatusPending,
			CreatedAt:   time.Now(),
		}

		if err := s.queue.Enqueue(ctx, item); err != nil {
			if errors.Is(err, interfaces.ErrDuplicateURL) {
				result.Duplicates++
				continue
			}
			return fmt.Errorf("failed to enqueue %s: %w", normalized, err)
		}
		result.Enqueued++
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Int("kept", kept).
		Msg("Query processed")

	return nil
}
