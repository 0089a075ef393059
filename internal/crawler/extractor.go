package crawler

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/docs-crawler/internal/entity"
)

// noiseSelector matches elements that never carry documentation text.
const noiseSelector = "script, style, noscript, nav, footer, header"

// Region is a candidate main-content container. Its text qualifies when it is
// longer than MinChars characters.
type Region struct {
	Selector string
	MinChars int
}

// DefaultRegions lists the main-content selectors from most to least specific.
var DefaultRegions = []Region{
	{Selector: "main", MinChars: 200},
	{Selector: ".main-content", MinChars: 200},
	{Selector: ".documentation", MinChars: 200},
	{Selector: ".docs-content", MinChars: 200},
	{Selector: "article", MinChars: 200},
	{Selector: ".content", MinChars: 200},
	{Selector: "#content", MinChars: 200},
	{Selector: ".documentation-content", MinChars: 200},
}

// Extractor pulls the main text out of rendered HTML.
type Extractor struct {
	Regions []Region
}

// NewExtractor returns an Extractor using DefaultRegions.
func NewExtractor() *Extractor {
	return &Extractor{Regions: DefaultRegions}
}

// Extract parses HTML content and returns its title and cleaned text.
// It never fails: when no region qualifies the whole body text is used.
func (e *Extractor) Extract(htmlContent string) entity.ExtractedPage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return entity.ExtractedPage{Content: NormalizeWhitespace(htmlContent)}
	}

	title := doc.Find("title").First().Text()

	doc.Find(noiseSelector).Remove()

	content := ""
	for _, region := range e.Regions {
		text := strings.TrimSpace(doc.Find(region.Selector).Text())
		if utf8.RuneCountInString(text) > region.MinChars {
			content = text
			break
		}
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	return entity.ExtractedPage{
		Title:   title,
		Content: NormalizeWhitespace(content),
	}
}

// NormalizeWhitespace collapses every whitespace run to a single space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
