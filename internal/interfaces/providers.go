package interfaces

import (
	"context"
)

// SearchResult is a single result returned by a search provider
type SearchResult struct {
	URL   string
	Title string
}

// SearchProvider issues a web search query and returns candidate URLs.
// Implementations are external collaborators (Gemini with GoogleSearch
// grounding); failures for one query must not poison subsequent queries.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// RenderedPage is the outcome of rendering one candidate URL
type RenderedPage struct {
	URL  string
	HTML string
	Text string
}

// PageRenderer fetches and renders a page with a bounded timeout,
// returning the full HTML and the visible text.
type PageRenderer interface {
	Render(ctx context.Context, url string) (*RenderedPage, error)
	Close() error
}

// Message represents a single message in a model conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the completion interface consumed by the extraction
// engine. Implementations wrap a cloud provider (Anthropic Claude).
type LLMService interface {
	// Chat generates a completion for the conversation history
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service can handle requests
	HealthCheck(ctx context.Context) error

	Close() error
}
