package common

import (
	"fmt"
	"net/url"
	"strings"
)

// HostOf returns the lowercase host of a URL, empty if the URL is unparseable
func HostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}

// HostMatchesAny reports whether the URL's host (or the URL itself, for
// partial fragments like "tripadvisor.") matches any denylist entry
func HostMatchesAny(rawURL string, denylist []string) bool {
	lowered := strings.ToLower(rawURL)
	for _, entry := range denylist {
		if entry == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// JoinPath appends a candidate path suffix to a base URL. An empty suffix
// returns the base unchanged; a trailing slash on the base is collapsed so
// "https://x.com/" + "/parties" yields "https://x.com/parties".
func JoinPath(baseURL, suffix string) string {
	if suffix == "" || suffix == "/" {
		return baseURL
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	return base + suffix
}

// NormalizeURL validates a URL and strips fragments and trailing slashes so
// equivalent URLs dedupe to the same queue row
func NormalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q in %q", parsed.Scheme, rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}
	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	normalized := parsed.String()
	return strings.TrimRight(normalized, "/"), nil
}
