package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3003", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "chromedp", cfg.Renderer)
	assert.Equal(t, 60*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, time.Second, cfg.CrawlDelay)
	assert.Equal(t, 100, cfg.DefaultMaxPages)
	assert.Empty(t, cfg.Proxies)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("CRAWL_DELAY", "250ms")
	t.Setenv("DEFAULT_MAX_PAGES", "25")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("USER_AGENTS", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)|agent-b")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.CrawlDelay)
	assert.Equal(t, 25, cfg.DefaultMaxPages)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)", "agent-b"}, cfg.UserAgents)
}
