package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/yasem/internal/remote"
)

// RemoteHandler exposes the remote control translator to host screens that
// have no session socket (profiles and profile configuration).
type RemoteHandler struct{}

// NewRemoteHandler creates a new remote handler.
func NewRemoteHandler() *RemoteHandler {
	return &RemoteHandler{}
}

// Register registers the remote routes with the API.
func (h *RemoteHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getKeyMap",
		Method:      "GET",
		Path:        "/api/v1/remote/keymap",
		Summary:     "Get the remote key map",
		Description: "Returns the host key names forwarded to portals and their legacy key codes",
		Tags:        []string{"Remote"},
	}, h.GetKeyMap)

	huma.Register(api, huma.Operation{
		OperationID: "translateKey",
		Method:      "POST",
		Path:        "/api/v1/remote/translate",
		Summary:     "Translate a host key-down",
		Tags:        []string{"Remote"},
	}, h.Translate)
}

// KeyMapInput is the input for the key map endpoint.
type KeyMapInput struct{}

// KeyMapOutput is the output for the key map endpoint.
type KeyMapOutput struct {
	Body struct {
		Keys remote.KeyMap `json:"keys"`
	}
}

// GetKeyMap returns the default remote layout.
func (h *RemoteHandler) GetKeyMap(_ context.Context, _ *KeyMapInput) (*KeyMapOutput, error) {
	out := &KeyMapOutput{}
	out.Body.Keys = remote.DefaultKeyMap
	return out, nil
}

// TranslateInput is a key-down on a host screen.
type TranslateInput struct {
	Body struct {
		Screen remote.Screen   `json:"screen,omitempty"`
		Key    remote.KeyEvent `json:"event"`
	}
}

// TranslateOutput is the translator's decision.
type TranslateOutput struct {
	Body remote.Decision
}

// Translate decides what the host does with a key-down.
func (h *RemoteHandler) Translate(_ context.Context, input *TranslateInput) (*TranslateOutput, error) {
	if input.Body.Screen.Kind == "" {
		input.Body.Screen = remote.PortalScreen()
	}
	return &TranslateOutput{Body: remote.Translate(input.Body.Screen, input.Body.Key)}, nil
}
