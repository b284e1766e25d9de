package search

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the SearchProvider interface using the Gemini SDK
// with GoogleSearch grounding. Result URLs come from the grounding chunks of
// the response, not from the generated text.
type GeminiService struct {
	config *common.GeminiConfig
	logger arbor.ILogger
	client *genai.Client
}

// NewGeminiService creates a new Gemini search provider.
func NewGeminiService(ctx context.Context, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for search (set via GEMINI_API_KEY or gemini.api_key in config)")
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Msg("Gemini search service initialized")

	return &GeminiService{
		config: geminiConfig,
		logger: logger,
		client: client,
	}, nil
}

// Search executes one grounded web search and returns the source URLs.
func (s *GeminiService) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	searchTool := &genai.Tool{GoogleSearch: &genai.GoogleSearch{}}
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{searchTool},
	}

	prompt := fmt.Sprintf(`Search the web for: %s

List the most relevant venue websites for this search. Prefer official venue sites over directories and aggregators.`, query)

	searchCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Str("query", query).
		Msg("Executing Gemini web search")

	resp, err := s.client.Models.GenerateContent(
		searchCtx,
		s.config.Model,
		[]*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		},
		config,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini search failed: %w", err)
	}

	var results []interfaces.SearchResult
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		gm := resp.Candidates[0].GroundingMetadata
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				results = append(results, interfaces.SearchResult{
					URL:   chunk.Web.URI,
					Title: chunk.Web.Title,
				})
			}
		}
	}

	s.logger.Debug().
		Str("query", query).
		Int("result_count", len(results)).
		Str("duration", time.Since(startTime).String()).
		Msg("Gemini web search completed")

	return results, nil
}
