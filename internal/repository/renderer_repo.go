package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/docs-crawler/internal/entity"
)

var (
	ErrSessionUnavailable = errors.New("rendering session could not be opened")
	ErrRenderTimeout      = errors.New("page did not reach network idle before the timeout")
	ErrNavigationFailed   = errors.New("failed to navigate to page")
	ErrInvalidURL         = errors.New("url is not an absolute http(s) URL")
)

// PageRenderer opens rendering sessions. One session is shared by every page of a crawl job.
type PageRenderer interface {
	Open(ctx context.Context) (RenderSession, error)
}

// RenderSession fetches and renders pages until it is closed.
type RenderSession interface {
	// Render loads url and returns its final HTML, title and absolute outbound links.
	Render(ctx context.Context, url string, timeout time.Duration) (*entity.RenderedPage, error)
	// Close releases the underlying browser. It is safe to call more than once.
	Close() error
}
