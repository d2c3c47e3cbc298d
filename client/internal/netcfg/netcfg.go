// Package netcfg resolves the viewer's feed endpoints.
package netcfg

import (
	"fmt"
	neturl "net/url"
	"os"
	"strings"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Local endpoints of a feed server started with defaults.
var (
	LocalAPIBase = getenv("QQ_LOCAL_API_BASE", "http://127.0.0.1:8080")  // REST
	LocalFeedURL = getenv("QQ_LOCAL_FEED_URL", "ws://127.0.0.1:8080/ws") // WebSocket
)

// Resolve returns the websocket feed URL and the REST base for login. An
// empty feedURL means no feed. "local" selects the local server. A missing
// apiBase is derived from the feed URL's scheme and host.
func Resolve(feedURL, apiBase string) (ws, api string, err error) {
	feedURL = strings.TrimSpace(feedURL)
	switch feedURL {
	case "":
		return "", "", nil
	case "local":
		feedURL = LocalFeedURL
		if apiBase == "" {
			apiBase = LocalAPIBase
		}
	}
	u, err := neturl.Parse(feedURL)
	if err != nil {
		return "", "", fmt.Errorf("feed url: %w", err)
	}
	var scheme string
	switch u.Scheme {
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	default:
		return "", "", fmt.Errorf("feed url %q: want ws:// or wss://", feedURL)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("feed url %q: missing host", feedURL)
	}
	if apiBase == "" {
		apiBase = scheme + "://" + u.Host
	}
	return u.String(), strings.TrimRight(apiBase, "/"), nil
}
