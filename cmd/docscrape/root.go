package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/bootstrap"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/config"
	"github.com/user/docs-crawler/pkg/logger"
)

// NewRootCmd creates the root command for docscrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscrape",
		Short: "Scrape and crawl documentation sites",
		Long: `docscrape fetches documentation pages, extracts their main text and stores it
keyed by URL. It runs jobs synchronously and prints the result.

Configuration is read from .env and the environment, like the API server.
Flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("sqlite", "", "Store documents in the SQLite database at this path")
	cmd.PersistentFlags().String("renderer", "", "Page renderer (chromedp, static)")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewCrawlCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the dependencies a command needs.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	documents repository.DocumentRepository
	renderer  repository.PageRenderer
	close     func()
}

// newApp loads configuration, applies the global flags and opens the store and renderer.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("sqlite"); v != "" {
		cfg.StoreDriver = bootstrap.StoreSQLite
		cfg.SQLitePath = v
	}
	if v, _ := flags.GetString("renderer"); v != "" {
		cfg.Renderer = v
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Writer: cmd.ErrOrStderr(), File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	renderer, err := bootstrap.NewRenderer(cfg, log)
	if err != nil {
		return nil, err
	}

	documents, closeStore, err := bootstrap.OpenDocumentStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		documents: documents,
		renderer:  renderer,
		close: func() {
			closeStore()
			_ = log.Sync()
		},
	}, nil
}
