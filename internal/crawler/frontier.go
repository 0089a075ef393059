package crawler

import "sync"

// Frontier is the job-scoped queue of URLs awaiting a fetch, bundled with the
// seen-set and the page budget. Each crawl job owns exactly one Frontier.
type Frontier struct {
	mu       sync.Mutex
	queue    []string
	pending  map[string]struct{}
	seen     map[string]struct{}
	maxPages int
	scraped  int
}

// NewFrontier creates an empty frontier with the given page budget.
func NewFrontier(maxPages int) *Frontier {
	return &Frontier{
		pending:  make(map[string]struct{}),
		seen:     make(map[string]struct{}),
		maxPages: maxPages,
	}
}

// Enqueue appends url unless it has already been seen or is already pending.
// It reports whether the URL was admitted.
func (f *Frontier) Enqueue(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[url]; ok {
		return false
	}
	if _, ok := f.pending[url]; ok {
		return false
	}
	f.pending[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop removes and returns the oldest pending URL.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.pending, url)
	return url, true
}

// Visit moves url into the seen-set. It returns false if the URL was already seen.
func (f *Frontier) Visit(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	return true
}

// Seen reports whether url has been visited.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[url]
	return ok
}

// Pending reports whether url is waiting in the queue.
func (f *Frontier) Pending(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[url]
	return ok
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// RecordScraped counts one successfully fetched page against the budget.
func (f *Frontier) RecordScraped() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scraped++
}

// Scraped returns the number of pages counted so far.
func (f *Frontier) Scraped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scraped
}

// Remaining returns maxPages - scraped, never below zero.
func (f *Frontier) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scraped >= f.maxPages {
		return 0
	}
	return f.maxPages - f.scraped
}

// Exhausted reports whether the page budget is used up.
func (f *Frontier) Exhausted() bool {
	return f.Remaining() == 0
}

// Discard drops every pending URL and returns how many were dropped.
func (f *Frontier) Discard() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.queue)
	f.queue = nil
	f.pending = make(map[string]struct{})
	return n
}
