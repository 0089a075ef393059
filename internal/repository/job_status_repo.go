package repository

import (
	"context"
	"errors"

	"github.com/user/docs-crawler/internal/entity"
)

var ErrJobNotFound = errors.New("crawl job not found")

// JobStatusRepository keeps the status records of asynchronous crawl jobs.
type JobStatusRepository interface {
	SetStatus(ctx context.Context, status *entity.CrawlStatus) error
	// GetStatus returns ErrJobNotFound for unknown or expired jobs.
	GetStatus(ctx context.Context, jobID string) (*entity.CrawlStatus, error)
	Ping(ctx context.Context) error
}
