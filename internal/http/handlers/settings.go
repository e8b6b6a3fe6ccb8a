package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/observability"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// SettingsHandler exposes the runtime logging knobs.
type SettingsHandler struct{}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// Register registers the settings routes with the API.
func (h *SettingsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSettings",
		Method:      "GET",
		Path:        "/api/v1/settings",
		Summary:     "Get runtime settings",
		Tags:        []string{"Settings"},
	}, h.GetSettings)

	huma.Register(api, huma.Operation{
		OperationID: "updateSettings",
		Method:      "PUT",
		Path:        "/api/v1/settings",
		Summary:     "Update runtime settings",
		Description: "Changes take effect immediately and are not persisted to the config file.",
		Tags:        []string{"Settings"},
	}, h.UpdateSettings)
}

// RuntimeSettings is the mutable subset of the logging configuration.
type RuntimeSettings struct {
	LogLevel       string `json:"logLevel" enum:"trace,debug,info,warn,error"`
	RequestLogging bool   `json:"requestLogging"`
}

func currentSettings() RuntimeSettings {
	return RuntimeSettings{
		LogLevel:       observability.GetLogLevel(),
		RequestLogging: observability.IsRequestLoggingEnabled(),
	}
}

// GetSettingsInput is the input for getting settings.
type GetSettingsInput struct{}

// SettingsOutput carries the settings after a read or update.
type SettingsOutput struct {
	Body struct {
		Settings RuntimeSettings `json:"settings"`
		Applied  []string        `json:"applied"`
	}
}

// GetSettings returns current runtime settings.
func (h *SettingsHandler) GetSettings(ctx context.Context, input *GetSettingsInput) (*SettingsOutput, error) {
	resp := &SettingsOutput{}
	resp.Body.Settings = currentSettings()
	resp.Body.Applied = []string{}
	return resp, nil
}

// UpdateSettingsInput is the input for updating settings.
type UpdateSettingsInput struct {
	Body struct {
		LogLevel       *string `json:"logLevel,omitempty"`
		RequestLogging *bool   `json:"requestLogging,omitempty"`
	}
}

// UpdateSettings applies whichever fields are present.
func (h *SettingsHandler) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	applied := []string{}

	if input.Body.LogLevel != nil {
		lvl := strings.ToLower(strings.TrimSpace(*input.Body.LogLevel))
		if !validLogLevel(lvl) {
			return nil, huma.Error422UnprocessableEntity("logLevel must be one of " + strings.Join(logLevels, ", "))
		}
		observability.SetLogLevel(lvl)
		applied = append(applied, "logLevel")
	}

	if input.Body.RequestLogging != nil {
		observability.SetRequestLoggingEnabled(*input.Body.RequestLogging)
		applied = append(applied, "requestLogging")
	}

	observability.LoggerFromContext(ctx).Info("runtime settings updated", "applied", applied)

	resp := &SettingsOutput{}
	resp.Body.Settings = currentSettings()
	resp.Body.Applied = applied
	return resp, nil
}

func validLogLevel(lvl string) bool {
	for _, l := range logLevels {
		if l == lvl {
			return true
		}
	}
	return false
}
