package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/session"
)

// SessionsHandler exposes the live emulation sessions.
type SessionsHandler struct {
	manager *session.Manager
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(manager *session.Manager) *SessionsHandler {
	return &SessionsHandler{manager: manager}
}

// Register registers the session routes with the API.
func (h *SessionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSessions",
		Method:      "GET",
		Path:        "/api/v1/sessions",
		Summary:     "List active sessions",
		Tags:        []string{"Sessions"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "closeSession",
		Method:        "DELETE",
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Close a session",
		Description:   "Stops telemetry, detaches the host video surface and closes the session socket.",
		Tags:          []string{"Sessions"},
		DefaultStatus: 204,
	}, h.Close)
}

// ListSessionsInput is the input for listing sessions.
type ListSessionsInput struct{}

// ListSessionsOutput is the output for listing sessions.
type ListSessionsOutput struct {
	Body struct {
		Sessions []SessionResponse `json:"sessions"`
		Count    int               `json:"count"`
	}
}

// List returns the live sessions, oldest first.
func (h *SessionsHandler) List(_ context.Context, _ *ListSessionsInput) (*ListSessionsOutput, error) {
	out := &ListSessionsOutput{}
	out.Body.Sessions = h.manager.List()
	out.Body.Count = len(out.Body.Sessions)
	return out, nil
}

// CloseSessionInput identifies one session.
type CloseSessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// CloseSessionOutput is the empty output for a close.
type CloseSessionOutput struct{}

// Close ends one session.
func (h *SessionsHandler) Close(_ context.Context, input *CloseSessionInput) (*CloseSessionOutput, error) {
	if err := h.manager.Close(input.ID); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, huma.Error404NotFound("session not found")
		}
		return nil, huma.Error500InternalServerError("failed to close session", err)
	}
	return &CloseSessionOutput{}, nil
}
