package entity

import "time"

const (
	CrawlStateRunning   = "running"
	CrawlStateCompleted = "completed"
	CrawlStateFailed    = "failed"
)

// CrawlStatus is the operator-facing record of an asynchronous crawl job.
type CrawlStatus struct {
	JobID        string     `json:"job_id"`
	StartURL     string     `json:"start_url"`
	Source       string     `json:"source"`
	MaxPages     int        `json:"max_pages"`
	State        string     `json:"state"` // "running", "completed", "failed"
	PagesScraped int        `json:"pages_scraped"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
