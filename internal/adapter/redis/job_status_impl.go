package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
)

const jobStatusPrefix = "crawler:job:"

// JobStatusRepoImpl stores crawl job status records in Redis as JSON values with a TTL.
type JobStatusRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobStatusRepo creates a new instance of JobStatusRepoImpl.
func NewJobStatusRepo(client *redis.Client, ttl time.Duration) *JobStatusRepoImpl {
	return &JobStatusRepoImpl{client: client, ttl: ttl}
}

func (r *JobStatusRepoImpl) generateKey(jobID string) string {
	return fmt.Sprintf("%s%s", jobStatusPrefix, jobID)
}

// SetStatus writes the status record, refreshing its expiry.
func (r *JobStatusRepoImpl) SetStatus(ctx context.Context, status *entity.CrawlStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.generateKey(status.JobID), payload, r.ttl).Err()
}

// GetStatus reads the status record of a job.
func (r *JobStatusRepoImpl) GetStatus(ctx context.Context, jobID string) (*entity.CrawlStatus, error) {
	val, err := r.client.Get(ctx, r.generateKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrJobNotFound
		}
		return nil, err
	}

	var status entity.CrawlStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return nil, fmt.Errorf("failed to decode status of job %s: %w", jobID, err)
	}
	return &status, nil
}

func (r *JobStatusRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
