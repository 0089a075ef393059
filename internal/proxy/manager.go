package proxy

import (
	"math/rand/v2"
	"sync"
)

// DefaultUserAgents is used when no user agents are configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// Manager hands out user agents and proxies to rendering sessions.
type Manager struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

// NewManager creates a manager. An empty userAgents list falls back to DefaultUserAgents.
func NewManager(userAgents, proxies []string) *Manager {
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}
	return &Manager{
		proxies:    proxies,
		userAgents: userAgents,
	}
}

// GetProxy returns a proxy URL from the list, rotating sequentially. Empty means direct.
func (m *Manager) GetProxy() string {
	if m == nil || len(m.proxies) == 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proxy := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return proxy
}

// GetUserAgent returns a random user agent string.
func (m *Manager) GetUserAgent() string {
	if m == nil || len(m.userAgents) == 0 {
		return DefaultUserAgents[0]
	}
	return m.userAgents[rand.IntN(len(m.userAgents))]
}
