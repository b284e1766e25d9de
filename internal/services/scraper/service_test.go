package scraper

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/models"
	"github.com/ternarybob/venuescout/internal/storage/badger"
)

type fakeRenderer struct {
	mu    sync.Mutex
	pages map[string]*interfaces.RenderedPage
	errs  map[string]error
	seen  []string
}

func (r *fakeRenderer) Render(_ context.Context, url string) (*interfaces.RenderedPage, error) {
	r.mu.Lock()
	r.seen = append(r.seen, url)
	r.mu.Unlock()

	if err, ok := r.errs[url]; ok {
		return nil, err
	}
	if page, ok := r.pages[url]; ok {
		return page, nil
	}
	return nil, errors.New("navigation failed: net::ERR_NAME_NOT_RESOLVED")
}

func (r *fakeRenderer) Close() error { return nil }

func page(url, text string) *interfaces.RenderedPage {
	return &interfaces.RenderedPage{URL: url, HTML: "<html><body>" + text + "</body></html>", Text: text}
}

func newTestQueue(t *testing.T) interfaces.QueueStorage {
	t.Helper()

	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	return manager.QueueStorage()
}

func enqueuePending(t *testing.T, queue interfaces.QueueStorage, url string) *models.QueueItem {
	t.Helper()

	item := &models.QueueItem{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := queue.Enqueue(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func testScraperConfig() *common.ScraperConfig {
	return &common.ScraperConfig{
		PagePaths:   []string{"", "/parties", "/pricing"},
		Keywords:    []string{"party", "birthday", "package"},
		PageTimeout: "5s",
		JSWaitTime:  "0s",
		BatchSize:   3,
		MaxItems:    50,
	}
}

func TestKeywordPageWinsImmediately(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueuePending(t, queue, "https://flipout.co.uk")

	renderer := &fakeRenderer{
		pages: map[string]*interfaces.RenderedPage{
			"https://flipout.co.uk":          page("https://flipout.co.uk", strings.Repeat("trampolines and fun ", 100)),
			"https://flipout.co.uk/parties":  page("https://flipout.co.uk/parties", "Birthday party packages from £180"),
			"https://flipout.co.uk/pricing":  page("https://flipout.co.uk/pricing", strings.Repeat("session prices ", 200)),
		},
	}

	svc := NewService(testScraperConfig(), renderer, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Scraped != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusScraped {
		t.Errorf("status = %s, want scraped", got.Status)
	}
	// The keyword page beats the longer homepage and the pricing page is
	// never rendered
	if !strings.Contains(got.RawText, "Birthday party packages") {
		t.Errorf("wrong page stored: %q", got.RawText)
	}
	for _, url := range renderer.seen {
		if url == "https://flipout.co.uk/pricing" {
			t.Error("pricing page rendered after keyword match")
		}
	}
}

func TestLongestPageWinsWithoutKeyword(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueuePending(t, queue, "https://hoppers.co.uk")

	renderer := &fakeRenderer{
		pages: map[string]*interfaces.RenderedPage{
			"https://hoppers.co.uk":         page("https://hoppers.co.uk", "short homepage"),
			"https://hoppers.co.uk/pricing": page("https://hoppers.co.uk/pricing", strings.Repeat("admission and hire details ", 50)),
		},
	}

	svc := NewService(testScraperConfig(), renderer, queue, arbor.NewLogger())
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusScraped {
		t.Fatalf("status = %s, want scraped", got.Status)
	}
	if !strings.Contains(got.RawText, "admission and hire") {
		t.Errorf("expected longest page to win, got %q", got.RawText)
	}
}

func TestAllCandidatesFailMarksFailed(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueuePending(t, queue, "https://gone.example")

	svc := NewService(testScraperConfig(), &fakeRenderer{}, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}

	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if !strings.Contains(got.ErrorMessage, "ERR_NAME_NOT_RESOLVED") {
		t.Errorf("error message should aggregate render failures: %q", got.ErrorMessage)
	}
	if got.ProcessedAt == nil {
		t.Error("ProcessedAt should be set on failure")
	}
}

func TestPartialCandidateFailureStillScrapes(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueuePending(t, queue, "https://flaky.co.uk")

	renderer := &fakeRenderer{
		pages: map[string]*interfaces.RenderedPage{
			"https://flaky.co.uk/parties": page("https://flaky.co.uk/parties", "kids party packages here"),
		},
		errs: map[string]error{
			"https://flaky.co.uk": errors.New("navigation failed: timeout"),
		},
	}

	svc := NewService(testScraperConfig(), renderer, queue, arbor.NewLogger())
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, err := queue.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusScraped {
		t.Errorf("status = %s, want scraped despite one bad candidate", got.Status)
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
	item := enqueuePending(t, queue, "https://flipout.co.uk")

	renderer := &fakeRenderer{
		pages: map[string]*interfaces.RenderedPage{
			"https://flipout.co.uk/parties": page("https://flipout.co.uk/parties", "Birthday party packages"),
		},
	}

	svc := NewService(testScraperConfig(), renderer, &brokenUpdateQueue{queue}, arbor.NewLogger())
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
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want pending after failed persist", got.Status)
	}
}

func TestRunSkipsItemsClaimedElsewhere(t *testing.T) {
	queue := newTestQueue(t)
	item := enqueuePending(t, queue, "https://flipout.co.uk")

	// Another worker got there first
	claimed, err := queue.Claim(context.Background(), item.ID, models.StatusPending)
	if err != nil || !claimed {
		t.Fatalf("setup claim failed: claimed=%v err=%v", claimed, err)
	}

	svc := NewService(testScraperConfig(), &fakeRenderer{}, queue, arbor.NewLogger())
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 0 {
		t.Errorf("processed = %d, want 0", result.Processed)
	}
}
