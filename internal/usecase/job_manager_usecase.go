package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/utils"
)

var (
	ErrInvalidCrawlJob  = errors.New("start URL and source are required")
	ErrJobManagerClosed = errors.New("job manager is shutting down")
)

// statusWriteTimeout bounds the final status write of a finished job.
const statusWriteTimeout = 5 * time.Second

// JobManager starts crawl jobs in the background and reports their status.
//
// StartCrawl is fire-and-forget and at-most-once: the job is acknowledged before any page
// is fetched, runs exactly once on a context owned by the manager, and its outcome is only
// logged and written to the status store, never returned to the caller.
type JobManager interface {
	StartCrawl(ctx context.Context, job entity.CrawlJob) (string, error)
	GetStatus(ctx context.Context, jobID string) (*entity.CrawlStatus, error)
	// Shutdown rejects new jobs and cancels running ones; they stop before their next page.
	Shutdown()
	// Wait rejects new jobs and blocks until every started job has finished.
	Wait()
}

type jobManagerUseCase struct {
	crawler  Crawler
	statuses repository.JobStatusRepository
	logger   *zap.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	// mu orders wg.Add in StartCrawl against closing in Shutdown and Wait.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewJobManager creates a JobManager whose jobs run until they finish or Shutdown is called.
func NewJobManager(crawler Crawler, statuses repository.JobStatusRepository, logger *zap.Logger) JobManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &jobManagerUseCase{
		crawler:  crawler,
		statuses: statuses,
		logger:   logger,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

func (m *jobManagerUseCase) StartCrawl(ctx context.Context, job entity.CrawlJob) (string, error) {
	if job.Source == "" || !utils.IsAbsoluteHTTPURL(job.StartURL) {
		return "", ErrInvalidCrawlJob
	}
	job = entity.NewCrawlJob(job.StartURL, job.Source, job.MaxPages)
	job.ID = uuid.NewString()

	status := &entity.CrawlStatus{
		JobID:     job.ID,
		StartURL:  job.StartURL,
		Source:    job.Source,
		MaxPages:  job.MaxPages,
		State:     entity.CrawlStateRunning,
		StartedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrJobManagerClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()

	if err := m.statuses.SetStatus(ctx, status); err != nil {
		// The crawl still runs; only its status record is missing.
		m.logger.Warn("Failed to record crawl job status", zap.String("job_id", job.ID), zap.Error(err))
	}
	go m.run(job, status)

	m.logger.Info("Crawling started",
		zap.String("job_id", job.ID),
		zap.String("start_url", job.StartURL),
		zap.Int("max_pages", job.MaxPages),
	)
	return job.ID, nil
}

func (m *jobManagerUseCase) run(job entity.CrawlJob, status *entity.CrawlStatus) {
	defer m.wg.Done()
	log := m.logger.With(zap.String("job_id", job.ID))

	var result entity.CrawlResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Crawling error", zap.Any("panic", r))
				result = entity.CrawlResult{Error: fmt.Sprintf("crawl panicked: %v", r)}
			}
		}()
		result = m.crawler.Crawl(m.baseCtx, job)
	}()

	finished := time.Now().UTC()
	status.PagesScraped = result.PagesScraped
	status.Error = result.Error
	status.FinishedAt = &finished
	status.State = entity.CrawlStateCompleted
	if !result.Success {
		status.State = entity.CrawlStateFailed
		log.Error("Crawling failed", zap.String("error", result.Error), zap.Int("pages_scraped", result.PagesScraped))
	} else {
		log.Info("Crawling completed", zap.Int("pages_scraped", result.PagesScraped))
	}

	ctx, cancel := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancel()
	if err := m.statuses.SetStatus(ctx, status); err != nil {
		log.Warn("Failed to record final crawl job status", zap.Error(err))
	}
}

func (m *jobManagerUseCase) GetStatus(ctx context.Context, jobID string) (*entity.CrawlStatus, error) {
	return m.statuses.GetStatus(ctx, jobID)
}

func (m *jobManagerUseCase) Shutdown() {
	m.close()
	m.cancel()
}

func (m *jobManagerUseCase) Wait() {
	m.close()
	m.wg.Wait()
}

func (m *jobManagerUseCase) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
