package entity

// RenderedPage is what a renderer hands back for one URL.
type RenderedPage struct {
	URL      string
	FinalURL string // after redirects
	HTML     string
	Title    string
	Links    []string // absolute outbound hrefs
}

// ExtractedPage holds the cleaned text of a page. Content is whitespace-normalized.
type ExtractedPage struct {
	Title   string
	Content string
}
