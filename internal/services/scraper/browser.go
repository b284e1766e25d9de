package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
)

// ChromeRenderer implements PageRenderer on top of a single headless Chrome
// instance. Each Render call runs in its own tab context so a wedged page
// cannot take the browser down with it.
type ChromeRenderer struct {
	config *common.ScraperConfig
	logger arbor.ILogger

	mu              sync.Mutex
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc
	initialized     bool
}

// NewChromeRenderer creates the renderer and starts the browser.
func NewChromeRenderer(config *common.ScraperConfig, logger arbor.ILogger) (*ChromeRenderer, error) {
	r := &ChromeRenderer{
		config: config,
		logger: logger,
	}
	if err := r.start(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ChromeRenderer) start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return fmt.Errorf("browser already started")
	}

	userAgent := r.config.UserAgent
	if userAgent == "" {
		userAgent = "VenueScout-Crawler/1.0"
	}

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", r.config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(
		context.Background(),
		allocatorOpts...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	// Startup probe so a broken Chrome install fails fast
	testCtx, testCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer testCancel()
	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return fmt.Errorf("browser failed startup test: %w", err)
	}

	r.browserCtx = browserCtx
	r.browserCancel = browserCancel
	r.allocatorCancel = allocatorCancel
	r.initialized = true

	r.logger.Debug().
		Str("user_agent", userAgent).
		Bool("headless", r.config.Headless).
		Msg("Chrome renderer started")

	return nil
}

// Render navigates to the URL, waits for JavaScript to settle, and returns
// the full HTML plus the visible body text.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (*interfaces.RenderedPage, error) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil, fmt.Errorf("browser not started")
	}
	browserCtx := r.browserCtx
	r.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	pageCtx, cancel := context.WithTimeout(tabCtx, r.config.PageTimeoutDuration())
	defer cancel()

	// Honor caller cancellation as well as the page timeout
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-pageCtx.Done():
		}
	}()

	r.logger.Debug().Str("url", url).Msg("Navigating to URL")

	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(r.config.JSWaitDuration()),
	)
	if err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	var html, text string
	err = chromedp.Run(pageCtx,
		chromedp.OuterHTML("html", &html),
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text),
	)
	if err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	return &interfaces.RenderedPage{
		URL:  url,
		HTML: html,
		Text: text,
	}, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil
	}

	r.logger.Debug().Msg("Shutting down Chrome renderer")
	r.browserCancel()
	r.allocatorCancel()
	r.initialized = false
	return nil
}
