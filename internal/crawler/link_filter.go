package crawler

import (
	"net/url"
	"strings"
)

// Verdict is the outcome of a link filter decision.
type Verdict string

const (
	VerdictAdmitted    Verdict = "admitted"
	VerdictMalformed   Verdict = "malformed"
	VerdictForeignHost Verdict = "foreign_host"
	VerdictDuplicate   Verdict = "duplicate"
	VerdictExcluded    Verdict = "excluded"
	VerdictNotDocs     Verdict = "not_docs"
)

// VisitState answers whether a URL is already known to the crawl. *Frontier implements it.
type VisitState interface {
	Seen(url string) bool
	Pending(url string) bool
}

// LinkFilter decides whether a discovered link looks like documentation worth crawling.
// A link must avoid every Exclude substring and contain at least one Include substring
// in its path; both conditions are required.
type LinkFilter struct {
	Include []string
	Exclude []string
}

// DefaultLinkFilter returns the documentation-path heuristic.
func DefaultLinkFilter() LinkFilter {
	return LinkFilter{
		Include: []string{"/docs/", "/documentation/", "/guide/", "/help/"},
		Exclude: []string{"/blog/", "/pricing/", "/about/"},
	}
}

// Admit evaluates candidate against the crawl's base domain and visit state.
// The decision depends only on its arguments.
func (f LinkFilter) Admit(candidate, baseDomain string, state VisitState) Verdict {
	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return VerdictMalformed
	}
	if u.Hostname() != baseDomain {
		return VerdictForeignHost
	}
	if state != nil && (state.Seen(candidate) || state.Pending(candidate)) {
		return VerdictDuplicate
	}
	for _, s := range f.Exclude {
		if strings.Contains(u.Path, s) {
			return VerdictExcluded
		}
	}
	for _, s := range f.Include {
		if strings.Contains(u.Path, s) {
			return VerdictAdmitted
		}
	}
	return VerdictNotDocs
}
