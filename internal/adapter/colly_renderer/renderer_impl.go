package colly_renderer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/proxy"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/utils"
)

// StaticRenderer fetches pages over plain HTTP without executing JavaScript.
type StaticRenderer struct {
	proxies *proxy.Manager
	logger  *zap.Logger
}

func NewStaticRenderer(proxies *proxy.Manager, logger *zap.Logger) *StaticRenderer {
	return &StaticRenderer{proxies: proxies, logger: logger}
}

// Open prepares a collector shared by the session's page fetches.
func (r *StaticRenderer) Open(ctx context.Context) (repository.RenderSession, error) {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(r.proxies.GetUserAgent()),
	)
	if p := r.proxies.GetProxy(); p != "" {
		if err := c.SetProxy(p); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrSessionUnavailable, err)
		}
	}
	return &session{base: c, logger: r.logger}, nil
}

type session struct {
	base   *colly.Collector
	logger *zap.Logger
}

func (s *session) Render(ctx context.Context, url string, timeout time.Duration) (*entity.RenderedPage, error) {
	if !utils.IsAbsoluteHTTPURL(url) {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidURL, url)
	}

	c := s.base.Clone()
	c.Context = ctx
	c.SetRequestTimeout(timeout)

	page := &entity.RenderedPage{URL: url, FinalURL: url}
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page.HTML = string(r.Body)
		page.FinalURL = r.Request.URL.String()
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if page.Title == "" {
			page.Title = e.Text
		}
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if strings.HasPrefix(link, "http") {
			page.Links = append(page.Links, link)
		}
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if fetchErr != nil {
		var netErr net.Error
		if errors.Is(fetchErr, context.DeadlineExceeded) || (errors.As(fetchErr, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrRenderTimeout, url, timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, fetchErr)
	}
	return page, nil
}

// Close is a no-op; the collector holds no long-lived resources.
func (s *session) Close() error {
	return nil
}
