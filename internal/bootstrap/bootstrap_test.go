package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/docs-crawler/internal/adapter/chromedp_renderer"
	"github.com/user/docs-crawler/internal/adapter/colly_renderer"
	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/pkg/config"
)

func TestNewRenderer(t *testing.T) {
	logger := zaptest.NewLogger(t)

	r, err := NewRenderer(&config.Config{Renderer: RendererChromedp}, logger)
	require.NoError(t, err)
	assert.IsType(t, &chromedp_renderer.ChromedpRenderer{}, r)

	r, err = NewRenderer(&config.Config{Renderer: RendererStatic}, logger)
	require.NoError(t, err)
	assert.IsType(t, &colly_renderer.StaticRenderer{}, r)

	_, err = NewRenderer(&config.Config{Renderer: "lynx"}, logger)
	assert.Error(t, err)
}

func TestOpenDocumentStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "docs.db")}

	store, closeStore, err := OpenDocumentStore(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Upsert(ctx, &entity.Document{URL: "https://ex.com/docs/a", Source: "ex", Content: "x"}))
	doc, err := store.FindByURL(ctx, "https://ex.com/docs/a")
	require.NoError(t, err)
	assert.Equal(t, "https://ex.com/docs/a", doc.Title)
	assert.NoError(t, store.Ping(ctx))
}

func TestOpenDocumentStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenDocumentStore(context.Background(), &config.Config{StoreDriver: "mongo"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unknown store driver")
}
