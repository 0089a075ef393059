package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/metrics"
	"github.com/user/docs-crawler/pkg/utils"
)

// saveDocument upserts doc and reports success. Storage errors are logged, never returned.
func saveDocument(ctx context.Context, documents repository.DocumentRepository, doc *entity.Document, logger *zap.Logger) bool {
	if err := documents.Upsert(ctx, doc); err != nil {
		metrics.PageFailuresTotal.WithLabelValues("storage").Inc()
		logger.Error("Error saving to database", zap.String("url", doc.URL), zap.Error(err))
		return false
	}
	return true
}

// renderPage renders one page and records how long it took.
func renderPage(ctx context.Context, session repository.RenderSession, url string, timeout time.Duration) (*entity.RenderedPage, error) {
	start := time.Now()
	page, err := session.Render(ctx, url, timeout)
	metrics.PageRenderDuration.WithLabelValues(utils.Hostname(url)).Observe(time.Since(start).Seconds())
	return page, err
}

// pageTitle prefers the document's <title>, then the renderer's view of it.
// An empty result lets the store default the title to the URL.
func pageTitle(page entity.ExtractedPage, rendered *entity.RenderedPage) string {
	if page.Title != "" {
		return page.Title
	}
	return rendered.Title
}

// failureKind classifies a render error for metrics.
func failureKind(err error) string {
	switch {
	case errors.Is(err, repository.ErrRenderTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, repository.ErrSessionUnavailable):
		return "session"
	default:
		return "unknown"
	}
}

func closeSession(session repository.RenderSession, logger *zap.Logger) {
	if err := session.Close(); err != nil {
		logger.Warn("Failed to close rendering session", zap.Error(err))
	}
}
