package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"github.com/ternarybob/venuescout/internal/storage/badger"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Chat(_ context.Context, messages []interfaces.Message) (string, error) {
	for _, m := range messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) HealthCheck(context.Context) error { return nil }
func (f *fakeLLM) Close() error                      { return nil }

func newTestQueue(t *testing.T) interfaces.QueueStorage {
	t.Helper()

	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	return manager.QueueStorage()
}

func enqueueScraped(t *testing.T, queue interfaces.QueueStorage, url, html string) *models.QueueItem {
	t.Helper()

	item := &models.QueueItem{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    models.StatusScraped,
		RawHTML:   html,
		CreatedAt: time.Now(),
	}
	if err := queue.Enqueue(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func testExtractionConfig() *common.ExtractionConfig {
	return &common.ExtractionConfig{
		BatchLimit:      10,
		ItemDelay:       "0s",
		MaxContentChars: 8000,
	}
}

const flipOutHTML = `<html><head><title>Flip Out London</title>
<script>analytics.track()</script>
<style>.hero { color: red }</style></head>
<body><h1>Kids Birthday Parties at Flip Out London</h1>
<p>Basic Bounce party £180 for 10 children. Ultimate Party £280 includes food.</p>
</body></html>`

const flipOutResponse = `{
  "venue": {
    "name": "Flip Out London",
    "description": "Trampoline park",
    "address_line_1": "123 Jump Street",
    "city": "London",
    "borough": "Wandsworth",
    "postcode": "SW18 4JB",
    "venue_type": ["trampoline"]
  },
  "packages": [
    {"name": "Basic Bounce", "description": "60 minutes of jump time", "base_price": 180, "base_includes_children": 10},
    {"name": "Ultimate Party", "description": "Jump time plus party room and food", "base_price": 280, "base_includes_children": 10}
  ],
  "confidence_score": 0.85,
  "extraction_notes": "Prices listed on parties page"
}`

func TestRunExtractsVenueAndPackages(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)
	llm := &fakeLLM{response: flipOutResponse}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Review != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusReview {
		t.Fatalf("status = %s, want review", got.Status)
	}
	if got.ExtractedData == nil || got.ExtractedData.Venue == nil {
		t.Fatal("extracted data missing")
	}
	if got.ExtractedData.Venue.Name != "Flip Out London" {
		t.Errorf("venue name = %q", got.ExtractedData.Venue.Name)
	}
	if len(got.ExtractedData.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(got.ExtractedData.Packages))
	}
	if *got.ExtractedData.Packages[0].BasePrice != 180 || *got.ExtractedData.Packages[1].BasePrice != 280 {
		t.Error("package prices not preserved")
	}
	if got.Confidence == nil || *got.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", got.Confidence)
	}

	// Prompt content must be cleaned, not raw markup
	if len(llm.prompts) == 0 {
		t.Fatal("model never called")
	}
	prompt := llm.prompts[0]
	if strings.Contains(prompt, "analytics.track") || strings.Contains(prompt, ".hero") {
		t.Error("script/style content leaked into prompt")
	}
	if !strings.Contains(prompt, "Basic Bounce party") {
		t.Error("page text missing from prompt")
	}
}

func TestRunHandlesFencedResponse(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)
	llm := &fakeLLM{response: "```json\n" + flipOutResponse + "\n```"}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != models.StatusReview {
		t.Errorf("status = %s, want review for fenced JSON", got.Status)
	}
}

func TestRunMalformedResponseFails(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)
	llm := &fakeLLM{response: "I could not find any venue information on this page, sorry!"}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != models.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if !strings.Contains(got.ErrorMessage, interfaces.ErrMalformedResponse.Error()) {
		t.Errorf("error message should mention malformed response: %q", got.ErrorMessage)
	}
}

func TestRunNullVenueFails(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://blog.example", flipOutHTML)
	llm := &fakeLLM{response: `{"venue": null, "packages": [], "confidence_score": 0.1, "extraction_notes": "Page is a blog post"}`}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != models.StatusFailed {
		t.Errorf("status = %s, want failed for null venue", got.Status)
	}
	if got.ErrorMessage != "no venue identified in content" {
		t.Errorf("error message = %q", got.ErrorMessage)
	}
}

func TestRunClampsConfidence(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)
	response := strings.Replace(flipOutResponse, `"confidence_score": 0.85`, `"confidence_score": 85`, 1)
	llm := &fakeLLM{response: response}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Confidence == nil || *got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped to 1.0", got.Confidence)
	}
	if got.Status != models.StatusReview {
		t.Errorf("clamped result should still reach review, got %s", got.Status)
	}
}

func TestRunModelErrorFails(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)
	llm := &fakeLLM{err: errors.New("Claude API call failed: 429")}

	svc := NewService(testExtractionConfig(), llm, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}

	got, _ := queue.GetByID(context.Background(), item.ID)
	if got.Status != models.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
}

// brokenUpdateQueue fails every Update so persist-failure handling can be
// exercised against an otherwise real store.
type brokenUpdateQueue struct {
	interfaces.QueueStorage
}

func (q *brokenUpdateQueue) Update(context.Context, *models.QueueItem) error {
	return errors.New("write conflict")
}

func TestPersistFailureReleasesClaim(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueueScraped(t, queue, "https://flipout.co.uk", flipOutHTML)

	svc := NewService(testExtractionConfig(), &fakeLLM{response: flipOutResponse}, &brokenUpdateQueue{queue}, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 0 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The claim must not leave the item stuck in processing
	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusScraped {
		t.Errorf("status = %s, want scraped after failed persist", got.Status)
	}
}

func TestRunRespectsBatchLimit(t *testing.T) {
	queue := newTestQueue(t)
	config := testExtractionConfig()
	config.BatchLimit = 2
	for i := 0; i < 4; i++ {
		enqueueScraped(t, queue, "https://venue"+string(rune('a'+i))+".co.uk", flipOutHTML)
	}
	llm := &fakeLLM{response: flipOutResponse}

	svc := NewService(config, llm, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 2 {
		t.Errorf("processed = %d, want 2", result.Processed)
	}

	remaining, err := queue.ListByStatus(context.Background(), models.StatusScraped, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 items left scraped, got %d", len(remaining))
	}
}

func TestCleanContentTruncates(t *testing.T) {
	html := "<html><body><p>" + strings.Repeat("party venue content ", 1000) + "</p></body></html>"
	cleaned := CleanContent(html, "https://flipout.co.uk", 8000)
	if len(cleaned) != 8000 {
		t.Errorf("cleaned length = %d, want 8000", len(cleaned))
	}
}

func TestCleanContentTruncatesOnRuneBoundary(t *testing.T) {
	// "£" is two bytes; pack the text so a byte-level cut at any limit
	// would land mid-rune somewhere in this range
	html := "<html><body><p>" + strings.Repeat("£", 100) + "</p></body></html>"
	for limit := 10; limit <= 20; limit++ {
		cleaned := CleanContent(html, "https://flipout.co.uk", limit)
		if !utf8.ValidString(cleaned) {
			t.Errorf("limit %d: truncated content is not valid UTF-8: %q", limit, cleaned)
		}
		if len(cleaned) > limit {
			t.Errorf("limit %d: cleaned length = %d", limit, len(cleaned))
		}
	}
}

func TestExtractJSONVariants(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", `Here is the JSON: {"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.response); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}
