package entity

// DefaultMaxPages is the page budget used when a job does not specify one.
const DefaultMaxPages = 200

// CrawlJob lives for the duration of a single crawl run and is never persisted.
type CrawlJob struct {
	ID       string
	StartURL string
	Source   string
	MaxPages int
}

// NewCrawlJob builds a job, substituting DefaultMaxPages for a non-positive budget.
func NewCrawlJob(startURL, source string, maxPages int) CrawlJob {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return CrawlJob{
		StartURL: startURL,
		Source:   source,
		MaxPages: maxPages,
	}
}

// CrawlResult is produced when the orchestration loop terminates.
type CrawlResult struct {
	Success      bool   `json:"success"`
	PagesScraped int    `json:"pages_scraped"`
	Error        string `json:"error,omitempty"`
}
