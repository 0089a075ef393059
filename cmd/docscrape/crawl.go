package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/usecase"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start-url>",
		Short: "Crawl a documentation site and store every page",
		Long: `Crawl follows same-host documentation links breadth-first from the start URL
until the page budget is spent or no links remain. Pages that fail are skipped.
Interrupting the command stops the crawl after the current page.`,
		Example: `  docscrape crawl https://example.com/docs/ --source example --max-pages 50
  docscrape crawl --sqlite docs.db https://example.com/docs/ -s example --delay 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("source", "s", "", "Source label stored with every document (required)")
	cmd.Flags().IntP("max-pages", "p", entity.DefaultMaxPages, "Maximum number of pages to scrape")
	cmd.Flags().DurationP("delay", "d", -1, "Delay between page fetches (default from CRAWL_DELAY)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	delay, _ := cmd.Flags().GetDuration("delay")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	crawlDelay := a.cfg.CrawlDelay
	if delay >= 0 {
		crawlDelay = delay
	}

	crawler := usecase.NewCrawlerUseCase(a.renderer, a.documents, usecase.CrawlerConfig{
		PageLoadTimeout: a.cfg.PageLoadTimeout,
		CrawlDelay:      crawlDelay,
	}, a.logger)

	started := time.Now()
	result := crawler.Crawl(ctx, entity.NewCrawlJob(args[0], source, maxPages))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		entity.CrawlResult
		Duration string `json:"duration"`
	}{result, time.Since(started).Round(time.Millisecond).String()}); err != nil {
		return err
	}

	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}
