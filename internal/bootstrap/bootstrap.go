// Package bootstrap builds the infrastructure shared by the API server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/adapter/chromedp_renderer"
	"github.com/user/docs-crawler/internal/adapter/colly_renderer"
	"github.com/user/docs-crawler/internal/adapter/postgres"
	"github.com/user/docs-crawler/internal/adapter/sqlite"
	"github.com/user/docs-crawler/internal/proxy"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/config"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	RendererChromedp = "chromedp"
	RendererStatic   = "static"
)

// OpenDocumentStore connects the document store selected by cfg.StoreDriver and ensures its schema.
// The returned close function releases the connection.
func OpenDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DocumentRepository, func(), error) {
	switch cfg.StoreDriver {
	case StorePostgres, "":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("unable to reach database: %w", err)
		}
		repo := postgres.NewDocumentRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("PostgreSQL connection pool established")
		return repo, pool.Close, nil

	case StoreSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite database opened", zap.String("path", cfg.SQLitePath))
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Failed to close SQLite database", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewRenderer returns the page renderer selected by cfg.Renderer.
func NewRenderer(cfg *config.Config, logger *zap.Logger) (repository.PageRenderer, error) {
	proxies := proxy.NewManager(cfg.UserAgents, cfg.Proxies)

	switch cfg.Renderer {
	case RendererChromedp, "":
		return chromedp_renderer.NewChromedpRenderer(proxies, logger), nil
	case RendererStatic:
		return colly_renderer.NewStaticRenderer(proxies, logger), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}
