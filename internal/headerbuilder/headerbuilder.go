// Package headerbuilder provides small composable helpers that produce
// browser-shaped HTTP header sets. This replaces the mixin-style
// BrowserHeadersMixin inheritance chain with plain functions adapters and
// fetch engines call, rather than classes they extend.
package headerbuilder

import "net/http"

// Chrome returns a header set that mimics a recent desktop Chrome browser.
func Chrome() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Dest", "document")
	return h
}

// Safari returns a header set that mimics a recent desktop Safari browser.
func Safari() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}

// Plain returns a minimal header set with no browser fingerprint, used by
// the PlainHTTP engine.
func Plain() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", "raceintel-fetcher/1.0")
	return h
}

// Merge copies extra headers onto base and returns base.
func Merge(base http.Header, extra map[string]string) http.Header {
	for k, v := range extra {
		base.Set(k, v)
	}
	return base
}

// StripBrowserOnlyKwargs removes kwargs that only browser-driven engines
// understand (wait_for_selector, network_idle, stealth_mode) before a
// plain/impersonating engine issues the request, returning the remainder.
func StripBrowserOnlyKwargs(kwargs map[string]any) map[string]any {
	browserOnly := map[string]bool{
		"wait_for_selector": true,
		"network_idle":      true,
		"stealth_mode":      true,
	}
	out := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		if browserOnly[k] {
			continue
		}
		out[k] = v
	}
	return out
}
