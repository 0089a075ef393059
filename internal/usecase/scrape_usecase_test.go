package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/docs-crawler/internal/repository"
)

func TestScrapeURL_Success(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{
		"https://ex.com/docs/page": {html: docHTML("Page", "  some \n\t text  ")},
	}}
	docs := newFakeDocuments()
	uc := NewScraperUseCase(r, docs, time.Second, zaptest.NewLogger(t))

	doc, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/page", "ex")

	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/docs/page", doc.URL)
	assert.Equal(t, "Page", doc.Title)
	assert.Equal(t, "ex", doc.Source)
	assert.Equal(t, "some text", doc.Content)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, 1, r.Closed())
}

func TestScrapeURL_DefaultsTitleToURL(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{
		"https://ex.com/docs/page": {html: "<html><body>text</body></html>"},
	}}
	uc := NewScraperUseCase(r, newFakeDocuments(), time.Second, zaptest.NewLogger(t))

	doc, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/page", "ex")

	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/docs/page", doc.Title)
}

func TestScrapeURL_RenderFailure(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{
		"https://ex.com/docs/slow": {err: fmt.Errorf("%w: slow", repository.ErrRenderTimeout)},
	}}
	docs := newFakeDocuments()
	uc := NewScraperUseCase(r, docs, time.Second, zaptest.NewLogger(t))

	doc, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/slow", "ex")

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrScrapeFailed)
	assert.ErrorIs(t, err, repository.ErrRenderTimeout)
	assert.Equal(t, 0, docs.upserts)
	assert.Equal(t, 1, r.Closed())
}

func TestScrapeURL_SessionUnavailable(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{openErr: repository.ErrSessionUnavailable}
	uc := NewScraperUseCase(r, newFakeDocuments(), time.Second, zaptest.NewLogger(t))

	_, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/page", "ex")

	assert.ErrorIs(t, err, ErrScrapeFailed)
	assert.ErrorIs(t, err, repository.ErrSessionUnavailable)
}

func TestScrapeURL_StorageFailure(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{
		"https://ex.com/docs/page": {html: docHTML("Page", "text")},
	}}
	docs := newFakeDocuments()
	docs.upsertErr = errBoom
	uc := NewScraperUseCase(r, docs, time.Second, zaptest.NewLogger(t))

	doc, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/page", "ex")

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Equal(t, 1, r.Closed())
}

func TestScrapeURL_ReadBackFailureReturnsSavedRecord(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{pages: map[string]fakePage{
		"https://ex.com/docs/page": {html: "<html><body>text</body></html>"},
	}}
	docs := newFakeDocuments()
	docs.findErr = errBoom
	uc := NewScraperUseCase(r, docs, time.Second, zaptest.NewLogger(t))

	doc, err := uc.ScrapeURL(context.Background(), "https://ex.com/docs/page", "ex")

	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/docs/page", doc.Title)
	assert.Equal(t, "text", doc.Content)
}
