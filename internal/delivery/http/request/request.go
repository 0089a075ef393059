package request

// ScrapeURLRequest asks for a single page to be scraped and stored.
type ScrapeURLRequest struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// CrawlRequest starts a background crawl of a documentation site.
type CrawlRequest struct {
	StartURL string `json:"startUrl"`
	Source   string `json:"source"`
	MaxPages int    `json:"maxPages"` // optional, server default when zero
}
