package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/version"
)

// AppInfoHandler serves the build information shown on the profiles screen.
type AppInfoHandler struct{}

// NewAppInfoHandler creates a new app info handler.
func NewAppInfoHandler() *AppInfoHandler {
	return &AppInfoHandler{}
}

// Register registers the app info route with the API.
func (h *AppInfoHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getAppInfo",
		Method:      "GET",
		Path:        "/api/v1/app-info",
		Summary:     "Application information",
		Tags:        []string{"System"},
	}, h.Get)
}

const copyright = "Copyright (c) the yasem authors"

// AppInfoInput is the input for the app info endpoint.
type AppInfoInput struct{}

// AppInfoOutput is the output for the app info endpoint.
type AppInfoOutput struct {
	Body struct {
		Name      string `json:"name"`
		Copyright string `json:"copyright"`
		version.Info
	}
}

// Get returns the application name and build metadata.
func (h *AppInfoHandler) Get(_ context.Context, _ *AppInfoInput) (*AppInfoOutput, error) {
	out := &AppInfoOutput{}
	out.Body.Name = version.ApplicationName
	out.Body.Copyright = copyright
	out.Body.Info = version.GetInfo()
	return out, nil
}
