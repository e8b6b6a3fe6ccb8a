package portalproxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/urlutil"
)

// Request describes one proxied fetch.
type Request struct {
	Target    *url.URL
	ProfileID string
	// Profile is nil when the profile id is empty or unknown.
	Profile *emulation.DeviceProfile
	// Incoming is the browser request; its Accept, Cookie and Referer are consulted.
	Incoming *http.Request
}

// Response is the rewritten upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// HTML reports whether the body was decoded and rewritten.
	HTML bool
}

// ParseTarget validates the url query parameter.
func ParseTarget(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, ErrMissingURL
	}
	u, err := urlutil.ParseHTTPURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return u, nil
}

// UnwrapReferer returns the upstream page a proxied referer stands for. A
// missing, unparsable or non-proxied referer yields the target origin.
func UnwrapReferer(referer string, target *url.URL) string {
	if inner, ok := urlutil.UnwrapProxyURL(referer); ok {
		return inner
	}
	return urlutil.Origin(target)
}

// BuildUpstreamRequest creates the GET sent to the portal.
func BuildUpstreamRequest(ctx context.Context, target *url.URL, incoming *http.Request, profile *emulation.DeviceProfile) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgentFor(profile))
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", urlutil.Origin(target))

	if incoming != nil {
		if accept := incoming.Header.Get("Accept"); accept != "" {
			req.Header.Set("Accept", accept)
		}
		if cookie := incoming.Header.Get("Cookie"); cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
		req.Header.Set("Referer", UnwrapReferer(incoming.Header.Get("Referer"), target))
	}
	return req, nil
}

// strippedHeaders are dropped from upstream responses. The body is re-encoded
// and the portal must be frameable by the host page.
var strippedHeaders = []string{
	"content-encoding",
	"content-length",
	"transfer-encoding",
	"connection",
	"x-frame-options",
	"content-security-policy",
}

// SanitizeHeaders returns a copy of h without the stripped headers.
func SanitizeHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if isStripped(k) {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

func isStripped(name string) bool {
	for _, s := range strippedHeaders {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
