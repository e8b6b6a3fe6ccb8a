package handlers

import "net/http"

// CORSConfig holds the CORS headers set by raw handlers.
type CORSConfig struct {
	AllowOrigin   string
	AllowMethods  string
	AllowHeaders  string
	ExposeHeaders string
	MaxAge        string
}

// DefaultCORSConfig returns the permissive configuration used by the portal
// proxy and script endpoints, which are loaded cross-origin by portal frames.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:   "*",
		AllowMethods:  "GET, OPTIONS",
		AllowHeaders:  "*",
		ExposeHeaders: "Content-Length, Content-Type",
		MaxAge:        "86400",
	}
}

// SetCORSHeaders writes config into h.
func SetCORSHeaders(h http.Header, config CORSConfig) {
	h.Set("Access-Control-Allow-Origin", config.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", config.AllowMethods)
	h.Set("Access-Control-Allow-Headers", config.AllowHeaders)
	if config.ExposeHeaders != "" {
		h.Set("Access-Control-Expose-Headers", config.ExposeHeaders)
	}
	if config.MaxAge != "" {
		h.Set("Access-Control-Max-Age", config.MaxAge)
	}
}

// handleCORSOptions answers an OPTIONS request with the default CORS headers.
func handleCORSOptions(w http.ResponseWriter, _ *http.Request) {
	SetCORSHeaders(w.Header(), DefaultCORSConfig())
	w.WriteHeader(http.StatusNoContent)
}
