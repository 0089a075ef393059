package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/user/docs-crawler/internal/usecase"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape a single page and store it",
		Example: `  docscrape scrape https://example.com/docs/intro --source example
  docscrape scrape --sqlite docs.db --renderer static https://example.com/docs/intro --source example`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	cmd.Flags().StringP("source", "s", "", "Source label stored with the document (required)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runScrapeCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source, _ := cmd.Flags().GetString("source")

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	scraper := usecase.NewScraperUseCase(a.renderer, a.documents, a.cfg.PageLoadTimeout, a.logger)
	doc, err := scraper.ScrapeURL(ctx, args[0], source)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
