package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
)

type fakePage struct {
	html     string
	title    string
	finalURL string
	links    []string
	err      error
}

// fakeRenderer serves canned pages and records what was rendered.
type fakeRenderer struct {
	mu       sync.Mutex
	pages    map[string]fakePage
	openErr  error
	opened   int
	closed   int
	rendered []string
	spans    []renderSpan
	onRender func(url string)
	delay    time.Duration // every render takes this long
}

type renderSpan struct {
	start, end time.Time
}

func (r *fakeRenderer) Open(_ context.Context) (repository.RenderSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.opened++
	return &fakeSession{r: r}, nil
}

func (r *fakeRenderer) Rendered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rendered...)
}

func (r *fakeRenderer) Spans() []renderSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]renderSpan(nil), r.spans...)
}

func (r *fakeRenderer) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type fakeSession struct {
	r *fakeRenderer
}

func (s *fakeSession) Render(_ context.Context, url string, _ time.Duration) (*entity.RenderedPage, error) {
	start := time.Now()
	s.r.mu.Lock()
	s.r.rendered = append(s.r.rendered, url)
	p, ok := s.r.pages[url]
	hook := s.r.onRender
	delay := s.r.delay
	s.r.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	time.Sleep(delay)
	defer func() {
		s.r.mu.Lock()
		s.r.spans = append(s.r.spans, renderSpan{start: start, end: time.Now()})
		s.r.mu.Unlock()
	}()
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNavigationFailed, url)
	}
	if p.err != nil {
		return nil, p.err
	}
	finalURL := url
	if p.finalURL != "" {
		finalURL = p.finalURL
	}
	return &entity.RenderedPage{URL: url, FinalURL: finalURL, HTML: p.html, Title: p.title, Links: p.links}, nil
}

func (s *fakeSession) Close() error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.closed++
	return nil
}

// fakeDocuments is an in-memory DocumentRepository with the upsert semantics of the real stores.
type fakeDocuments struct {
	mu        sync.Mutex
	docs      map[string]*entity.Document
	upserts   int
	upsertErr error
	findErr   error
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: make(map[string]*entity.Document)}
}

func (d *fakeDocuments) Upsert(_ context.Context, doc *entity.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upserts++
	if d.upsertErr != nil {
		return d.upsertErr
	}
	if existing, ok := d.docs[doc.URL]; ok {
		existing.Content = doc.Content
		existing.CreatedAt = doc.CreatedAt
		if doc.Title != "" {
			existing.Title = doc.Title
		}
		return nil
	}
	stored := *doc
	stored.ID = int64(len(d.docs) + 1)
	if stored.Title == "" {
		stored.Title = stored.URL
	}
	d.docs[doc.URL] = &stored
	return nil
}

func (d *fakeDocuments) FindByURL(_ context.Context, url string) (*entity.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.findErr != nil {
		return nil, d.findErr
	}
	doc, ok := d.docs[url]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (d *fakeDocuments) Ping(context.Context) error { return nil }

func (d *fakeDocuments) Get(url string) *entity.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.docs[url]
}

func (d *fakeDocuments) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.docs)
}

// fakeStatuses is an in-memory JobStatusRepository.
type fakeStatuses struct {
	mu       sync.Mutex
	statuses map[string]entity.CrawlStatus
	setErr   error
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{statuses: make(map[string]entity.CrawlStatus)}
}

func (s *fakeStatuses) SetStatus(_ context.Context, status *entity.CrawlStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.statuses[status.JobID] = *status
	return nil
}

func (s *fakeStatuses) GetStatus(_ context.Context, jobID string) (*entity.CrawlStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[jobID]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return &st, nil
}

func (s *fakeStatuses) Ping(context.Context) error { return nil }

var errBoom = errors.New("boom")

func docHTML(title, text string) string {
	return "<html><head><title>" + title + "</title></head><body><main>" + text + "</main></body></html>"
}
