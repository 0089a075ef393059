package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/docs-crawler/internal/entity"
	"github.com/user/docs-crawler/internal/proxy"
	"github.com/user/docs-crawler/internal/repository"
	"github.com/user/docs-crawler/pkg/utils"
)

const linksScript = `Array.from(document.querySelectorAll('a'))
	.map(a => a.href)
	.filter(href => href && href.startsWith('http'))`

// ChromedpRenderer renders pages in headless Chrome.
type ChromedpRenderer struct {
	proxies *proxy.Manager
	logger  *zap.Logger
}

// NewChromedpRenderer creates a renderer. Each Open launches one browser process.
func NewChromedpRenderer(proxies *proxy.Manager, logger *zap.Logger) *ChromedpRenderer {
	return &ChromedpRenderer{proxies: proxies, logger: logger}
}

// Open launches a headless browser that is shared by every Render call of the session.
func (r *ChromedpRenderer) Open(ctx context.Context) (repository.RenderSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.proxies.GetUserAgent()),
	)
	if p := r.proxies.GetProxy(); p != "" {
		opts = append(opts, chromedp.ProxyServer(p))
	}

	// The browser must outlive the request that opened it; the session owns its lifetime.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(r.logger.Sugar().Debugf),
		chromedp.WithErrorf(r.logger.Sugar().Debugf),
	)

	// Running with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", repository.ErrSessionUnavailable, err)
	}

	r.logger.Debug("browser session opened")
	return &session{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		logger:        r.logger,
	}, nil
}

type session struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	logger        *zap.Logger
	closeOnce     sync.Once
}

// Render opens a new tab, navigates to url and waits for network idle.
func (s *session) Render(ctx context.Context, url string, timeout time.Duration) (*entity.RenderedPage, error) {
	if !utils.IsAbsoluteHTTPURL(url) {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidURL, url)
	}

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	idle := waitNetworkIdle(tabCtx)

	var html, title, finalURL string
	var links []string
	err := chromedp.Run(tabCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
		idle,
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(linksScript, &links),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(tabCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrRenderTimeout, url, timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	return &entity.RenderedPage{
		URL:      url,
		FinalURL: finalURL,
		HTML:     html,
		Title:    title,
		Links:    links,
	}, nil
}

// Close shuts the browser down. Subsequent calls are no-ops.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelBrowser()
		s.cancelAlloc()
		s.logger.Debug("browser session closed")
	})
	return nil
}

// waitNetworkIdle returns an action that blocks until the frame whose navigation started
// first after registration reports networkIdle. Iframes never release the wait.
func waitNetworkIdle(ctx context.Context) chromedp.Action {
	idle := make(chan struct{})
	var tracker idleTracker
	var once sync.Once

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		if tracker.observe(e) {
			once.Do(func() { close(idle) })
		}
	})

	return chromedp.ActionFunc(func(ctx context.Context) error {
		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// idleTracker follows the lifecycle events of one frame: the first to send "init".
type idleTracker struct {
	mu    sync.Mutex
	frame cdp.FrameID
}

// observe reports whether e marks the tracked frame as network idle.
func (t *idleTracker) observe(e *page.EventLifecycleEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Name {
	case "init":
		if t.frame == "" {
			t.frame = e.FrameID
		}
	case "networkIdle":
		return t.frame != "" && e.FrameID == t.frame
	}
	return false
}
