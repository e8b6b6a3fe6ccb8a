// Package urlutil provides URL helpers shared by the portal proxy, the script
// endpoint and the host page.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL scheme constants.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Paths of the raw portal routes.
const (
	ProxyPath  = "/portal-proxy"
	ScriptPath = "/portal-script"
)

// ErrNotHTTP is returned for URLs that are not absolute http(s) URLs.
var ErrNotHTTP = errors.New("not an absolute http(s) URL")

// ParseHTTPURL parses raw and requires an absolute http or https URL with a host.
func ParseHTTPURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty url: %w", ErrNotHTTP)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", raw, ErrNotHTTP)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != SchemeHTTP && scheme != SchemeHTTPS) || u.Host == "" {
		return nil, fmt.Errorf("%q: %w", raw, ErrNotHTTP)
	}
	return u, nil
}

// Origin returns scheme://host of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// ProxyURL returns the same-origin proxy path that fetches target on behalf of profileID.
func ProxyURL(target, profileID string) string {
	q := url.Values{}
	q.Set("url", target)
	if profileID != "" {
		q.Set("profileId", profileID)
	}
	return ProxyPath + "?" + q.Encode()
}

// ScriptURL returns the path of the device script for profileID.
func ScriptURL(profileID string) string {
	return ScriptPath + "?profileId=" + url.QueryEscape(profileID)
}

// UnwrapProxyURL returns the upstream URL carried by a proxied URL. Absolute
// and path-only forms are accepted. ok is false when raw is not a proxy URL.
func UnwrapProxyURL(raw string) (target string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !strings.HasSuffix(u.Path, ProxyPath) {
		return "", false
	}
	target = u.Query().Get("url")
	return target, target != ""
}
