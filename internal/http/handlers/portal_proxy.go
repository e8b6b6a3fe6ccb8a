package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/internal/portalproxy"
	"github.com/jmylchreest/yasem/internal/urlutil"
)

// DeviceProfileSource resolves a profile id into its emulation view.
type DeviceProfileSource interface {
	DeviceProfile(ctx context.Context, id string) (*emulation.DeviceProfile, error)
}

// PortalProxyHandler serves GET /portal-proxy: it fetches a portal resource
// with the profile's identity and injects the device bootstrap into HTML.
type PortalProxyHandler struct {
	proxy    *portalproxy.Proxy
	profiles DeviceProfileSource
	logger   *slog.Logger
}

// NewPortalProxyHandler creates a new portal proxy handler.
func NewPortalProxyHandler(proxy *portalproxy.Proxy, profiles DeviceProfileSource) *PortalProxyHandler {
	return &PortalProxyHandler{
		proxy:    proxy,
		profiles: profiles,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the handler.
func (h *PortalProxyHandler) WithLogger(logger *slog.Logger) *PortalProxyHandler {
	h.logger = logger
	return h
}

// Register documents the raw proxy route in the OpenAPI description. The
// route itself is served by RegisterChiRoutes so that origin statuses and
// non-JSON bodies pass through untouched.
func (h *PortalProxyHandler) Register(api huma.API) {
	api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "proxyPortal",
		Method:      http.MethodGet,
		Path:        urlutil.ProxyPath,
		Summary:     "Fetch a portal resource",
		Description: "Fetches url with the profile's User-Agent. HTML documents are decoded to UTF-8 and receive the device bootstrap; other bodies pass through. The origin status is mirrored.",
		Tags:        []string{"Portal"},
		Parameters: []*huma.Param{
			{Name: "url", In: "query", Required: true, Description: "Absolute http(s) URL to fetch", Schema: &huma.Schema{Type: "string"}},
			{Name: "profileId", In: "query", Description: "Profile whose identity is presented upstream", Schema: &huma.Schema{Type: "string"}},
		},
		Responses: map[string]*huma.Response{
			"200": {Description: "Origin response, HTML rewritten"},
			"400": {Description: "Missing or invalid url"},
			"502": {Description: "Portal unavailable page"},
		},
	})
}

// RegisterChiRoutes registers the raw proxy routes.
func (h *PortalProxyHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(urlutil.ProxyPath, h.ServeProxy)
	r.Options(urlutil.ProxyPath, handleCORSOptions)
}

// ServeProxy handles one proxied fetch.
func (h *PortalProxyHandler) ServeProxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	target, err := portalproxy.ParseTarget(q.Get("url"))
	if err != nil {
		msg := "Invalid URL"
		if errors.Is(err, portalproxy.ErrMissingURL) {
			msg = "url parameter required"
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	profileID := q.Get("profileId")
	profile := h.resolveProfile(ctx, profileID)

	resp, err := h.proxy.Fetch(ctx, portalproxy.Request{
		Target:    target,
		ProfileID: profileID,
		Profile:   profile,
		Incoming:  r,
	})
	if err != nil {
		observability.WithError(h.logger, err).WarnContext(ctx, "portal fetch failed",
			slog.String("url", target.String()),
			slog.String("profile_id", profileID),
		)
		portalproxy.WriteError(w, target.String())
		return
	}

	for name, values := range resp.Header {
		w.Header()[name] = values
	}
	w.WriteHeader(resp.StatusCode)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Body)
	}
}

// resolveProfile looks up profileID. Unknown or failing lookups yield nil:
// the fetch proceeds with the generic User-Agent.
func (h *PortalProxyHandler) resolveProfile(ctx context.Context, profileID string) *emulation.DeviceProfile {
	if profileID == "" || h.profiles == nil {
		return nil
	}
	profile, err := h.profiles.DeviceProfile(ctx, profileID)
	if err != nil {
		if !errors.Is(err, models.ErrProfileNotFound) {
			observability.WithError(h.logger, err).WarnContext(ctx, "profile lookup failed",
				slog.String("profile_id", profileID),
			)
		}
		return nil
	}
	return profile
}
