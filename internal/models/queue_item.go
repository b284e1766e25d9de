package models

import (
	"time"
)

// QueueStatus represents the lifecycle state of a queue item
type QueueStatus string

const (
	// StatusPending - enqueued by discovery, waiting for scrape
	StatusPending QueueStatus = "pending"
	// StatusProcessing - claimed by a stage, work in flight
	StatusProcessing QueueStatus = "processing"
	// StatusScraped - page content captured, waiting for extraction
	StatusScraped QueueStatus = "scraped"
	// StatusReview - extraction succeeded, waiting for human decision
	StatusReview QueueStatus = "review"
	// StatusPublished - approved, venue and packages created (terminal)
	StatusPublished QueueStatus = "published"
	// StatusRejected - human rejected the extraction (terminal)
	StatusRejected QueueStatus = "rejected"
	// StatusFailed - stage failed, error recorded; re-queueable by an operator
	StatusFailed QueueStatus = "failed"
)

// IsTerminal reports whether a status permits no further pipeline work
func (s QueueStatus) IsTerminal() bool {
	return s == StatusPublished || s == StatusRejected
}

// ValidStatuses lists every queue status for validation and stats
func ValidStatuses() []QueueStatus {
	return []QueueStatus{
		StatusPending, StatusProcessing, StatusScraped,
		StatusReview, StatusPublished, StatusRejected, StatusFailed,
	}
}

// QueueItem is a unit of pipeline work keyed by a candidate venue URL.
//
// Lifecycle: discovery inserts pending rows; the scraper claims
// pending->processing and releases to scraped or failed; extraction claims
// scraped->processing and releases to review or failed; review moves
// review->published (approve) or review->rejected (reject). Published and
// rejected are terminal - reprocessing a URL requires an operator requeue or
// a fresh discovery run against a different URL.
type QueueItem struct {
	ID          string      `json:"id" badgerhold:"key"`
	URL         string      `json:"url" badgerhold:"unique"`
	SearchQuery string      `json:"search_query"`
	Status      QueueStatus `json:"status" badgerhold:"index"`

	// Scrape output
	RawHTML string `json:"raw_html,omitempty"`
	RawText string `json:"raw_text,omitempty"`

	// Extraction output. Confidence is set together with ExtractedData.
	ExtractedData *ExtractionResult `json:"extracted_data,omitempty"`
	Confidence    *float64          `json:"confidence_score,omitempty"`

	// Review output
	RejectionReason string `json:"rejection_reason,omitempty"`

	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

// HasExtraction reports whether extraction output is attached
func (q *QueueItem) HasExtraction() bool {
	return q.ExtractedData != nil
}

// QueueStats holds per-status item counts for operator display
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Scraped    int `json:"scraped"`
	Review     int `json:"review"`
	Published  int `json:"published"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}
