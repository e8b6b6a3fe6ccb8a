package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/internal/session"
)

// SessionSocketPath is the session WebSocket route.
const SessionSocketPath = "/api/v1/session/ws"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

// SessionHandler serves the session WebSocket that binds a host page to an
// emulated device.
type SessionHandler struct {
	manager  *session.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewSessionHandler creates a new session socket handler.
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the handler.
func (h *SessionHandler) WithLogger(logger *slog.Logger) *SessionHandler {
	h.logger = logger
	return h
}

// Register documents the socket route in the OpenAPI description.
func (h *SessionHandler) Register(api huma.API) {
	api.OpenAPI().AddOperation(&huma.Operation{
		OperationID: "openSession",
		Method:      http.MethodGet,
		Path:        SessionSocketPath,
		Summary:     "Open an emulation session",
		Description: "Upgrades to a WebSocket carrying {type, payload} messages. The server speaks first with yasem:hello.",
		Tags:        []string{"Sessions"},
		Parameters: []*huma.Param{
			{Name: "profileId", In: "query", Required: true, Description: "Profile to emulate", Schema: &huma.Schema{Type: "string"}},
		},
		Responses: map[string]*huma.Response{
			"101": {Description: "Switching protocols"},
			"400": {Description: `{"error":"profileId required"}`},
		},
	})
}

// RegisterChiRoutes registers the raw socket route.
func (h *SessionHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(SessionSocketPath, h.ServeSocket)
}

// socketTransport serialises writes to one connection.
type socketTransport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (t *socketTransport) Send(m session.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteJSON(m)
}

func (t *socketTransport) close(code int, text string) {
	_ = t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
	_ = t.conn.Close()
}

// ServeSocket upgrades the request and runs the session until either side
// goes away.
func (h *SessionHandler) ServeSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		writeJSONError(w, http.StatusBadRequest, "profileId required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.DebugContext(ctx, "session upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	t := &socketTransport{conn: conn}

	s, err := h.manager.Open(ctx, profileID, t)
	if err != nil {
		msg := "session could not be opened"
		if errors.Is(err, models.ErrProfileNotFound) {
			msg = "Profile not found"
		}
		if em, encErr := session.NewMessage(session.TypeError, session.ErrorPayload{Message: msg}); encErr == nil {
			_ = t.Send(em)
		}
		observability.WithError(h.logger, err).WarnContext(ctx, "session open failed", slog.String("profile_id", profileID))
		t.close(websocket.ClosePolicyViolation, msg)
		return
	}

	logger := observability.WithSessionID(h.logger, s.ID())
	defer func() {
		// The reaper or the API may have closed the session already.
		_ = h.manager.Close(s.ID())
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go h.keepAlive(t, s, stop)

	for {
		var msg session.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.DebugContext(ctx, "session socket read failed", slog.String("error", err.Error()))
			}
			return
		}

		err := s.Handle(ctx, msg)
		if err == nil {
			continue
		}
		if errors.Is(err, session.ErrSessionClosed) {
			return
		}
		logger.DebugContext(ctx, "host message rejected",
			slog.String("type", msg.Type),
			slog.String("error", err.Error()),
		)
		if em, encErr := session.NewMessage(session.TypeError, session.ErrorPayload{Type: msg.Type, Message: err.Error()}); encErr == nil {
			if sendErr := t.Send(em); sendErr != nil {
				return
			}
		}
	}
}

// keepAlive pings the host and closes the socket once the session ends.
func (h *SessionHandler) keepAlive(t *socketTransport, s *session.Session, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.Done():
			t.close(websocket.CloseNormalClosure, "session closed")
			return
		case <-ticker.C:
			if err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
