package rest

import (
	"fmt"
	"net/url"
	"strings"
)

// devPort is the port the webpack dev server binds; anything served from it
// talks to a backend on devAPIPort instead of its own origin.
const (
	devPort    = "3000"
	devAPIPort = "8080"
)

// DeriveAPIBase maps a page origin to the REST base. A dev origin gets an
// absolute URL pointing at the local backend port; every other origin uses
// a same-origin relative path.
func DeriveAPIBase(origin string) (string, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parsing origin %q: %w", origin, err)
	}
	if parsed.Port() == devPort {
		return fmt.Sprintf("%s://%s:%s/api", parsed.Scheme, parsed.Hostname(), devAPIPort), nil
	}
	return "/api", nil
}

// DeriveChannelBase rewrites the REST base's /api segment to the push
// channel's /ws segment.
func DeriveChannelBase(apiBase string) string {
	if strings.HasPrefix(apiBase, "/") {
		return "/ws"
	}
	return strings.Replace(apiBase, "/api", "/ws", 1)
}

// ResolveAgainst turns a possibly-relative base into an absolute URL using
// the page origin, which is what the headless client dials.
func ResolveAgainst(origin, base string) (string, error) {
	if !strings.HasPrefix(base, "/") {
		return base, nil
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parsing origin %q: %w", origin, err)
	}
	return fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, base), nil
}

// WebsocketURL converts an absolute http(s) channel URL into its ws(s) form.
func WebsocketURL(channelURL string) string {
	if strings.HasPrefix(channelURL, "https:") {
		return "wss:" + strings.TrimPrefix(channelURL, "https:")
	}
	if strings.HasPrefix(channelURL, "http:") {
		return "ws:" + strings.TrimPrefix(channelURL, "http:")
	}
	return channelURL
}
