package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
)

func newRepo(t *testing.T, ttl time.Duration) (*JobStatusRepoImpl, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewJobStatusRepo(client, ttl), mr
}

func TestJobStatusRepo_RoundTrip(t *testing.T) {
	t.Parallel()

	repo, mr := newRepo(t, time.Hour)
	ctx := context.Background()
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	status := &entity.CrawlStatus{
		JobID:     "job-1",
		StartURL:  "https://ex.com/docs/intro",
		Source:    "ex",
		MaxPages:  10,
		State:     entity.CrawlStateRunning,
		StartedAt: started,
	}
	require.NoError(t, repo.SetStatus(ctx, status))
	assert.True(t, mr.Exists("crawler:job:job-1"))
	assert.Equal(t, time.Hour, mr.TTL("crawler:job:job-1"))

	got, err := repo.GetStatus(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, status, got)

	finished := started.Add(time.Minute)
	status.State = entity.CrawlStateCompleted
	status.PagesScraped = 4
	status.FinishedAt = &finished
	require.NoError(t, repo.SetStatus(ctx, status))

	got, err = repo.GetStatus(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CrawlStateCompleted, got.State)
	assert.Equal(t, 4, got.PagesScraped)
	require.NotNil(t, got.FinishedAt)
	assert.True(t, finished.Equal(*got.FinishedAt))
}

func TestJobStatusRepo_Expiry(t *testing.T) {
	t.Parallel()

	repo, mr := newRepo(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, &entity.CrawlStatus{JobID: "job-2", State: entity.CrawlStateRunning}))
	mr.FastForward(2 * time.Minute)

	_, err := repo.GetStatus(ctx, "job-2")
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
}

func TestJobStatusRepo_UnknownAndCorrupt(t *testing.T) {
	t.Parallel()

	repo, mr := newRepo(t, time.Hour)
	ctx := context.Background()

	_, err := repo.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrJobNotFound)

	require.NoError(t, mr.Set("crawler:job:bad", "{not json"))
	_, err = repo.GetStatus(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrJobNotFound)
}

func TestJobStatusRepo_Ping(t *testing.T) {
	t.Parallel()

	repo, mr := newRepo(t, time.Hour)
	require.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}
