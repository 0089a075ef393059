package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/delivery/http/request"
	"github.com/user/docs-crawler/internal/delivery/http/response"
	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/internal/usecase"
	"github.com/user/docs-crawler/pkg/utils"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	scraper         usecase.Scraper
	jobs            usecase.JobManager
	documents       repository.DocumentRepository
	healthChecks    map[string]Pinger
	defaultMaxPages int
	logger          *zap.Logger
}

func NewHandler(
	scraper usecase.Scraper,
	jobs usecase.JobManager,
	documents repository.DocumentRepository,
	healthChecks map[string]Pinger,
	defaultMaxPages int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		scraper:         scraper,
		jobs:            jobs,
		documents:       documents,
		healthChecks:    healthChecks,
		defaultMaxPages: defaultMaxPages,
		logger:          logger,
	}
}

func (h *Handler) HandleScrapeURL(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" || req.Source == "" {
		h.writeJSONError(w, "URL and source are required", http.StatusBadRequest)
		return
	}
	if !utils.IsAbsoluteHTTPURL(req.URL) {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	if _, err := h.scraper.ScrapeURL(r.Context(), req.URL, req.Source); err != nil {
		if errors.Is(err, usecase.ErrStorageFailed) {
			h.writeJSONError(w, "Failed to save to database", http.StatusInternalServerError)
			return
		}
		h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.ScrapeResponse{
		Success: true,
		Message: "Content scraped and saved successfully",
	})
}

func (h *Handler) HandleStartCrawl(w http.ResponseWriter, r *http.Request) {
	var req request.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StartURL == "" || req.Source == "" {
		h.writeJSONError(w, "Start URL and source are required", http.StatusBadRequest)
		return
	}

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = h.defaultMaxPages
	}

	// The request context ends with the response; the job runs on the manager's own context.
	jobID, err := h.jobs.StartCrawl(r.Context(), entity.CrawlJob{
		StartURL: req.StartURL,
		Source:   req.Source,
		MaxPages: maxPages,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCrawlJob) {
			h.writeJSONError(w, "Invalid start URL", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to start crawl", zap.String("start_url", req.StartURL), zap.Error(err))
		h.writeJSONError(w, "Crawler is not accepting jobs", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.CrawlAcceptedResponse{
		Success: true,
		Message: "Crawling started. This may take some time.",
		JobID:   jobID,
	})
}

func (h *Handler) HandleGetCrawlStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	status, err := h.jobs.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			h.writeJSONError(w, "Crawl job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get crawl status", zap.String("job_id", jobID), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CrawlStatusResponse{
		JobID:        status.JobID,
		StartURL:     status.StartURL,
		Source:       status.Source,
		MaxPages:     status.MaxPages,
		State:        status.State,
		PagesScraped: status.PagesScraped,
		Error:        status.Error,
		StartedAt:    status.StartedAt,
		FinishedAt:   status.FinishedAt,
	})
}

func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	doc, err := h.documents.FindByURL(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			h.writeJSONError(w, "Document not found for the given URL", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get document", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.DocumentResponse{
		ID:        doc.ID,
		URL:       doc.URL,
		Source:    doc.Source,
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := make(map[string]string, len(h.healthChecks))
	healthy := true
	for name, dep := range h.healthChecks {
		if err := dep.Ping(ctx); err != nil {
			status[name] = "unhealthy"
			healthy = false
			h.logger.Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		status[name] = "healthy"
	}

	if !healthy {
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Success: false, Error: message})
}
