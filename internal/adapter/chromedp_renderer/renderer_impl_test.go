package chromedp_renderer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/docs-crawler/internal/proxy"
	"github.com/user/docs-crawler/internal/repository"
)

func TestSession_RenderRejectsRelativeURL(t *testing.T) {
	t.Parallel()

	s := &session{}
	_, err := s.Render(context.Background(), "/docs/intro", time.Second)
	assert.ErrorIs(t, err, repository.ErrInvalidURL)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	s := &session{
		cancelBrowser: func() { calls++ },
		cancelAlloc:   func() { calls++ },
		logger:        zaptest.NewLogger(t),
	}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 2, calls)
}

func TestIdleTracker_IgnoresOtherFrames(t *testing.T) {
	t.Parallel()

	ev := func(frame, name string) *page.EventLifecycleEvent {
		return &page.EventLifecycleEvent{FrameID: cdp.FrameID(frame), Name: name}
	}

	var tr idleTracker
	assert.False(t, tr.observe(ev("iframe", "networkIdle")), "idle before any navigation")
	assert.False(t, tr.observe(ev("main", "init")))
	assert.False(t, tr.observe(ev("iframe", "init")))
	assert.False(t, tr.observe(ev("iframe", "load")))
	assert.False(t, tr.observe(ev("iframe", "networkIdle")))
	assert.False(t, tr.observe(ev("main", "load")))
	assert.True(t, tr.observe(ev("main", "networkIdle")))
}

func findChrome() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func TestChromedpRenderer_Render(t *testing.T) {
	if testing.Short() || !findChrome() {
		t.Skip("chrome is not available")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Rendered</title></head><body>
			<main id="m"></main>
			<a href="/docs/next">next</a>
			<script>document.getElementById('m').textContent = 'from javascript';</script>
		</body></html>`)
	}))
	defer srv.Close()

	r := NewChromedpRenderer(proxy.NewManager(nil, nil), zaptest.NewLogger(t))
	s, err := r.Open(context.Background())
	require.NoError(t, err)
	defer s.Close()

	page, err := s.Render(context.Background(), srv.URL+"/docs/intro", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Rendered", page.Title)
	assert.Contains(t, page.HTML, "from javascript")
	assert.Equal(t, []string{srv.URL + "/docs/next"}, page.Links)
}
