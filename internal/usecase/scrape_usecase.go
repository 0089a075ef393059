package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/crawler"
	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/metrics"
)

var (
	ErrScrapeFailed  = errors.New("failed to scrape page")
	ErrStorageFailed = errors.New("failed to save to database")
)

// Scraper defines the single-page scrape path.
type Scraper interface {
	// ScrapeURL fetches, extracts and stores one page. Any failure is returned to the caller.
	ScrapeURL(ctx context.Context, url, source string) (*entity.Document, error)
}

type scraperUseCase struct {
	renderer  repository.PageRenderer
	documents repository.DocumentRepository
	extractor *crawler.Extractor
	timeout   time.Duration
	logger    *zap.Logger
}

// NewScraperUseCase creates a new instance of the scraper use case.
func NewScraperUseCase(
	renderer repository.PageRenderer,
	documents repository.DocumentRepository,
	pageLoadTimeout time.Duration,
	logger *zap.Logger,
) Scraper {
	return &scraperUseCase{
		renderer:  renderer,
		documents: documents,
		extractor: crawler.NewExtractor(),
		timeout:   pageLoadTimeout,
		logger:    logger,
	}
}

func (uc *scraperUseCase) ScrapeURL(ctx context.Context, url, source string) (*entity.Document, error) {
	log := uc.logger.With(zap.String("url", url), zap.String("source", source))

	session, err := uc.renderer.Open(ctx)
	if err != nil {
		log.Error("Failed to open rendering session", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
	}
	defer closeSession(session, log)

	rendered, err := renderPage(ctx, session, url, uc.timeout)
	if err != nil {
		metrics.PageFailuresTotal.WithLabelValues(failureKind(err)).Inc()
		log.Error("Error scraping page", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
	}

	page := uc.extractor.Extract(rendered.HTML)
	doc := &entity.Document{
		URL:       url,
		Source:    source,
		Title:     pageTitle(page, rendered),
		Content:   page.Content,
		CreatedAt: time.Now().UTC(),
	}
	if !saveDocument(ctx, uc.documents, doc, log) {
		return nil, ErrStorageFailed
	}
	metrics.PagesScrapedTotal.WithLabelValues("single").Inc()
	log.Info("Content scraped and saved", zap.Int("content_length", len(doc.Content)))

	stored, err := uc.documents.FindByURL(ctx, url)
	if err != nil {
		log.Warn("Saved document could not be read back", zap.Error(err))
		if doc.Title == "" {
			doc.Title = url
		}
		return doc, nil
	}
	return stored, nil
}
