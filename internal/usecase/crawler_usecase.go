package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/crawler"
	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/metrics"
)

// CrawlerConfig tunes page fetching for every crawl job.
type CrawlerConfig struct {
	PageLoadTimeout time.Duration
	// CrawlDelay is the pause between the end of one page and the start of the next. Zero disables it.
	CrawlDelay time.Duration
}

// Crawler defines the interface for crawling a documentation site.
type Crawler interface {
	// Crawl runs one job to completion or budget exhaustion. Per-page failures never abort it.
	Crawl(ctx context.Context, job entity.CrawlJob) entity.CrawlResult
}

type crawlerUseCase struct {
	renderer  repository.PageRenderer
	documents repository.DocumentRepository
	extractor *crawler.Extractor
	filter    crawler.LinkFilter
	cfg       CrawlerConfig
	logger    *zap.Logger
}

// NewCrawlerUseCase creates a new instance of the crawler use case.
func NewCrawlerUseCase(
	renderer repository.PageRenderer,
	documents repository.DocumentRepository,
	cfg CrawlerConfig,
	logger *zap.Logger,
) Crawler {
	return &crawlerUseCase{
		renderer:  renderer,
		documents: documents,
		extractor: crawler.NewExtractor(),
		filter:    crawler.DefaultLinkFilter(),
		cfg:       cfg,
		logger:    logger,
	}
}

func (uc *crawlerUseCase) Crawl(ctx context.Context, job entity.CrawlJob) entity.CrawlResult {
	log := uc.logger.With(
		zap.String("job_id", job.ID),
		zap.String("start_url", job.StartURL),
		zap.String("source", job.Source),
	)

	start, err := url.Parse(job.StartURL)
	if err != nil || start.Hostname() == "" {
		log.Error("Invalid start URL", zap.Error(err))
		return entity.CrawlResult{Error: fmt.Sprintf("invalid start url %q", job.StartURL)}
	}
	baseDomain := start.Hostname()

	session, err := uc.renderer.Open(ctx)
	if err != nil {
		log.Error("Failed to open rendering session", zap.Error(err))
		return entity.CrawlResult{Error: err.Error()}
	}
	defer closeSession(session, log)

	metrics.ActiveCrawls.Inc()
	defer metrics.ActiveCrawls.Dec()
	startedAt := time.Now()

	frontier := crawler.NewFrontier(job.MaxPages)
	if frontier.Enqueue(job.StartURL) {
		metrics.URLsInFrontier.Inc()
	}

	processed := 0
	result := entity.CrawlResult{Success: true}
	for frontier.Len() > 0 && !frontier.Exhausted() {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Sprintf("crawl cancelled: %v", err)
			break
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		metrics.URLsInFrontier.Dec()
		if !frontier.Visit(pageURL) {
			continue
		}

		if processed > 0 {
			if err := pause(ctx, uc.cfg.CrawlDelay); err != nil {
				result.Error = fmt.Sprintf("crawl cancelled: %v", err)
				break
			}
		}
		uc.processPage(ctx, session, job, baseDomain, pageURL, frontier, log)
		processed++
	}

	discarded := frontier.Discard()
	metrics.URLsInFrontier.Sub(float64(discarded))
	metrics.CrawlDuration.WithLabelValues(baseDomain).Observe(time.Since(startedAt).Seconds())

	result.PagesScraped = frontier.Scraped()
	log.Info("Crawling completed",
		zap.Int("pages_scraped", result.PagesScraped),
		zap.Int("discarded", discarded),
		zap.Duration("duration", time.Since(startedAt)),
	)
	return result
}

// processPage fetches, extracts, stores and expands a single URL. Its failures stay local.
func (uc *crawlerUseCase) processPage(
	ctx context.Context,
	session repository.RenderSession,
	job entity.CrawlJob,
	baseDomain, pageURL string,
	frontier *crawler.Frontier,
	log *zap.Logger,
) {
	log = log.With(zap.String("url", pageURL))
	log.Info("Scraping page")

	rendered, err := renderPage(ctx, session, pageURL, uc.cfg.PageLoadTimeout)
	if err != nil {
		metrics.PageFailuresTotal.WithLabelValues(failureKind(err)).Inc()
		log.Warn("Error processing page, skipping", zap.Error(err))
		return
	}

	if rendered.FinalURL != "" && rendered.FinalURL != pageURL {
		log.Debug("Page redirected", zap.String("final_url", rendered.FinalURL))
	}

	page := uc.extractor.Extract(rendered.HTML)
	saveDocument(ctx, uc.documents, &entity.Document{
		URL:       pageURL,
		Source:    job.Source,
		Title:     pageTitle(page, rendered),
		Content:   page.Content,
		CreatedAt: time.Now().UTC(),
	}, log)

	frontier.RecordScraped()
	metrics.PagesScrapedTotal.WithLabelValues("crawl").Inc()

	uc.enqueueLinks(rendered.Links, baseDomain, frontier, log)
}

func (uc *crawlerUseCase) enqueueLinks(links []string, baseDomain string, frontier *crawler.Frontier, log *zap.Logger) {
	admitted := 0
	for _, link := range links {
		verdict := uc.filter.Admit(link, baseDomain, frontier)
		metrics.LinksFilteredTotal.WithLabelValues(string(verdict)).Inc()

		switch verdict {
		case crawler.VerdictAdmitted:
			if frontier.Enqueue(link) {
				metrics.URLsInFrontier.Inc()
				admitted++
			}
		case crawler.VerdictMalformed:
			log.Warn("Invalid URL", zap.String("link", link))
		}
	}
	log.Debug("Links filtered", zap.Int("found", len(links)), zap.Int("admitted", admitted))
}

// pause blocks for d, or until ctx is done. It is the politeness gap between two pages of a job.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
