package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/delivery/http/handler"
	"github.com/user/docs-crawler/internal/delivery/http/middleware"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api/scrape", func(r chi.Router) {
		r.Post("/url", h.HandleScrapeURL)
		r.Post("/crawl", h.HandleStartCrawl)
		r.Get("/crawl/{jobID}", h.HandleGetCrawlStatus)
		r.Get("/document", h.HandleGetDocument)
	})

	return r
}
