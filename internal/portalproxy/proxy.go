// Package portalproxy fetches portal pages and assets on behalf of the host
// page and injects the device bootstrap into HTML documents.
package portalproxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/pkg/httpclient"
)

// DefaultTimeout bounds one upstream fetch.
const DefaultTimeout = 30 * time.Second

// Proxy performs upstream fetches. It is safe for concurrent use.
type Proxy struct {
	client    *httpclient.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

// New creates a proxy using client for upstream requests.
func New(client *httpclient.Client, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		client:    client,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    logger,
	}
}

// NewClient returns an httpclient configured for portal traffic: no retries,
// one circuit per portal host.
func NewClient(timeout time.Duration, maxBody int64, threshold int, circuitTimeout time.Duration, logger *slog.Logger) *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = timeout
	cfg.RetryAttempts = 0
	// Origin 5xx responses are mirrored to the portal, not treated as outages.
	cfg.TransportFailuresOnly = true
	cfg.MaxResponseSize = maxBody
	if threshold > 0 {
		cfg.CircuitThreshold = threshold
	}
	if circuitTimeout > 0 {
		cfg.CircuitTimeout = circuitTimeout
	}
	cfg.Logger = logger
	return httpclient.New(cfg)
}

// WithTimeout sets the per-fetch deadline.
func (p *Proxy) WithTimeout(d time.Duration) *Proxy {
	if d > 0 {
		p.timeout = d
	}
	return p
}

// WithUserAgent sets the User-Agent used when no profile is known.
func (p *Proxy) WithUserAgent(ua string) *Proxy {
	if ua != "" {
		p.userAgent = ua
	}
	return p
}

// Fetch performs one upstream GET. The origin status is reported as-is; only
// transport failures return an error, wrapping ErrUpstream.
func (p *Proxy) Fetch(ctx context.Context, req Request) (resp *Response, err error) {
	logger := observability.WithComponent(p.logger, "portal_proxy").With(
		slog.String("url", req.Target.String()),
		slog.String("profile_id", req.ProfileID),
	)
	done := observability.TimedOperationWithError(ctx, logger, "portal_fetch", &err)
	defer done()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	upstream, err := BuildUpstreamRequest(ctx, req.Target, req.Incoming, req.Profile)
	if err != nil {
		return nil, err
	}
	if req.Profile == nil {
		upstream.Header.Set("User-Agent", p.userAgent)
	}

	r, err := p.client.Do(upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUpstream, err)
	}

	header := SanitizeHeaders(r.Header)
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("X-Frame-Options", "SAMEORIGIN")

	resp = &Response{StatusCode: r.StatusCode, Header: header, Body: body}

	contentType := r.Header.Get("Content-Type")
	if !isHTML(contentType, body) {
		if contentType == "" {
			header.Set("Content-Type", sniffContentType(body))
		}
		return resp, nil
	}

	base := req.Target.String()
	if r.Request != nil && r.Request.URL != nil {
		base = r.Request.URL.String()
	}
	decoded, encoding := decodeHTML(body, contentType)
	if encoding != "utf-8" {
		logger.Debug("decoded portal document", slog.String("encoding", encoding))
	}

	resp.Body = InjectBootstrap(decoded, base, req.ProfileID)
	resp.HTML = true
	header.Set("Content-Type", "text/html; charset=utf-8")
	return resp, nil
}

// WriteError writes the 502 page for target.
func WriteError(w http.ResponseWriter, target string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write(ErrorPage(target))
}
