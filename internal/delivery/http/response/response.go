package response

import "time"

// ScrapeResponse is returned by the single-page scrape endpoint.
type ScrapeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CrawlAcceptedResponse acknowledges a crawl job. The crawl result itself is never returned here.
type CrawlAcceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"jobId"`
}

// CrawlStatusResponse is a DTO for crawl job status, mirroring entity.CrawlStatus
type CrawlStatusResponse struct {
	JobID        string     `json:"jobId"`
	StartURL     string     `json:"startUrl"`
	Source       string     `json:"source"`
	MaxPages     int        `json:"maxPages"`
	State        string     `json:"state"` // "running", "completed", "failed"
	PagesScraped int        `json:"pagesScraped"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

type DocumentResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
