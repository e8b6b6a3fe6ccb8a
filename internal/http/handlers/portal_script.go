package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/internal/urlutil"
)

// ScriptSource renders the device emulation script for a profile.
type ScriptSource interface {
	Script(ctx context.Context, profileID string) (string, error)
}

// PortalScriptHandler serves GET /portal-script, the device API script the
// bootstrap loads into every proxied portal document.
type PortalScriptHandler struct {
	scripts ScriptSource
	logger  *slog.Logger
}

// NewPortalScriptHandler creates a new portal script handler.
func NewPortalScriptHandler(scripts ScriptSource) *PortalScriptHandler {
	return &PortalScriptHandler{
		scripts: scripts,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger for the handler.
func (h *PortalScriptHandler) WithLogger(logger *slog.Logger) *PortalScriptHandler {
	h.logger = logger
	return h
}

// Register documents the raw script route in the OpenAPI description.
func (h *PortalScriptHandler) Register(api huma.API) {
	api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "getPortalScript",
		Method:      http.MethodGet,
		Path:        urlutil.ScriptPath,
		Summary:     "Get the device emulation script",
		Description: "Returns the JavaScript that installs the profile's legacy device objects into a portal window.",
		Tags:        []string{"Portal"},
		Parameters: []*huma.Param{
			{Name: "profileId", In: "query", Required: true, Description: "Profile ID", Schema: &huma.Schema{Type: "string"}},
		},
		Responses: map[string]*huma.Response{
			"200": {Description: "application/javascript"},
			"400": {Description: `{"error":"profileId required"}`},
			"404": {Description: `{"error":"Profile not found"}`},
		},
	})
}

// RegisterChiRoutes registers the raw script routes.
func (h *PortalScriptHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(urlutil.ScriptPath, h.ServeScript)
	r.Options(urlutil.ScriptPath, handleCORSOptions)
}

// ServeScript renders the script for the profileId query parameter.
func (h *PortalScriptHandler) ServeScript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		writeJSONError(w, http.StatusBadRequest, "profileId required")
		return
	}

	script, err := h.scripts.Script(ctx, profileID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProfileNotFound):
			writeJSONError(w, http.StatusNotFound, "Profile not found")
		case errors.Is(err, emulation.ErrUnknownFamily):
			writeJSONError(w, http.StatusUnprocessableEntity, "Unknown device family")
		default:
			observability.WithError(h.logger, err).ErrorContext(ctx, "rendering device script failed",
				slog.String("profile_id", profileID),
			)
			writeJSONError(w, http.StatusInternalServerError, "Script generation failed")
		}
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(script))
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
