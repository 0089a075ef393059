package utils

import "net/url"

// IsAbsoluteHTTPURL reports whether rawURL is an absolute http or https URL with a host.
func IsAbsoluteHTTPURL(rawURL string) bool {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Hostname returns the host of rawURL without port, or "unknown" when it cannot be parsed.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
