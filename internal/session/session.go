// Package session binds one host page to one emulated device: the session
// socket feeds host input to the remote translator, mirrored legacy calls to
// the device, and host UI messages to the compositor.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/yasem/internal/compositor"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/mediabridge"
	"github.com/jmylchreest/yasem/internal/observability"
	"github.com/jmylchreest/yasem/internal/remote"
	"github.com/jmylchreest/yasem/internal/urlutil"
)

// Transport delivers server messages to the host page.
type Transport interface {
	Send(Message) error
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(Message) error

// Send calls f.
func (f TransportFunc) Send(m Message) error {
	return f(m)
}

// Options configures new sessions.
type Options struct {
	TelemetryInterval time.Duration
	// MessagesPerSecond bounds inbound host messages. 0 disables the limit.
	MessagesPerSecond int
	Logger            *slog.Logger
}

// Session is one live emulation bound to a host page.
type Session struct {
	id        string
	profile   emulation.DeviceProfile
	createdAt time.Time
	lastSeen  atomic.Int64

	device     *emulation.Device
	bridge     *mediabridge.Bridge
	surface    *RemoteSurface
	compositor *compositor.Compositor
	limiter    *rate.Limiter

	transport Transport
	logger    *slog.Logger
	mirroring atomic.Bool

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds a session for profile. Nothing is sent until Start.
func New(id string, profile emulation.DeviceProfile, transport Transport, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = observability.WithSessionID(logger, id).With(slog.String("profile_id", profile.ID))

	s := &Session{
		id:         id,
		profile:    profile,
		createdAt:  time.Now(),
		compositor: compositor.New(),
		transport:  transport,
		logger:     logger,
		closed:     make(chan struct{}),
	}
	s.touch()
	if opts.MessagesPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.MessagesPerSecond), opts.MessagesPerSecond*2)
	}

	s.surface = NewRemoteSurface(s.sendCommand)
	emitter := mediabridge.NewEmitter(s.compositor, mediabridge.SinkFunc(s.forwardEvent), nil, logger)
	s.bridge = mediabridge.NewBridge(emitter, logger).
		WithTelemetryInterval(opts.TelemetryInterval).
		WithTickHook(s.onTick)

	device, err := emulation.NewDevice(profile, s.bridge, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating device for profile %s: %w", profile.ID, err)
	}
	s.device = device
	s.compositor.OnChange(s.onLayer)

	return s, nil
}

// Start greets the host page and attaches its video element.
func (s *Session) Start() error {
	hello := HelloPayload{
		SessionID: s.id,
		ProfileID: s.profile.ID,
		ClassID:   s.profile.ClassID,
		Top:       s.compositor.Top(),
		KeyMap:    remote.DefaultKeyMap,
		Player:    s.bridge.Snapshot(),
	}
	if s.profile.PortalURL != "" {
		hello.PortalURL = urlutil.ProxyURL(s.profile.PortalURL, s.profile.ID)
	}
	if err := s.send(TypeHello, hello); err != nil {
		return err
	}
	s.bridge.Attach(s.surface)
	return nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Profile returns the session's device profile.
func (s *Session) Profile() emulation.DeviceProfile { return s.profile }

// Device returns the emulated device.
func (s *Session) Device() *emulation.Device { return s.device }

// Compositor returns the session's layer compositor.
func (s *Session) Compositor() *compositor.Compositor { return s.compositor }

// Surface returns the host video surface.
func (s *Session) Surface() *RemoteSurface { return s.surface }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastSeen returns when the host last sent a message.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.closed }

// Close stops telemetry and detaches the surface. It is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.bridge.Detach()
		s.logger.Debug("session closed")
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// Handle processes one host message. Errors describe the rejected message;
// the session stays usable.
func (s *Session) Handle(ctx context.Context, msg Message) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	s.touch()
	if IsPortalEvent(msg.Type) {
		return nil
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return ErrRateLimited
	}

	switch msg.Type {
	case TypeInvoke:
		return s.handleInvoke(ctx, msg)
	case TypeTelemetry:
		var t TelemetryPayload
		if err := msg.Decode(&t); err != nil {
			return fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
		s.surface.Update(t)
		return nil
	case TypeKey:
		return s.handleKey(msg)
	case TypePlayerState:
		return s.send(TypePlayerState, playerStateFrom(s.bridge.Snapshot()))
	default:
		return s.handleHostMessage(msg)
	}
}

func (s *Session) handleInvoke(ctx context.Context, msg Message) error {
	var p InvokePayload
	if err := msg.Decode(&p); err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}

	var (
		value emulation.Value
		err   error
	)
	s.surface.Suppress(func() {
		s.mirroring.Store(true)
		defer s.mirroring.Store(false)
		value, err = s.device.Invoke(p.Name, p.Args...)
	})
	if err != nil && errors.Is(err, emulation.ErrUnknownOperation) {
		s.logger.DebugContext(ctx, "ignored unknown legacy call", slog.String("name", p.Name))
	}

	if p.ID == "" {
		return err
	}
	res := ResultPayload{ID: p.ID, Value: value}
	if err != nil {
		res.Error = err.Error()
	}
	return s.send(TypeResult, res)
}

func (s *Session) handleKey(msg Message) error {
	var p KeyPayload
	if err := msg.Decode(&p); err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	screen := remote.PortalScreen()
	if p.Screen != nil {
		screen = *p.Screen
	}

	d := remote.Translate(screen, p.KeyEvent)
	if d.Forward != nil {
		if err := s.send(TypeKeydown, keydownFrom(*d.Forward)); err != nil {
			return err
		}
	}
	if d.Action != remote.ActionNone {
		return s.send(TypeAction, ActionPayload{Action: d.Action, Selected: d.Selected})
	}
	return nil
}

func (s *Session) handleHostMessage(msg Message) error {
	out, err := s.compositor.HandleMessage(msg.Type, msg.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	if out.Command != nil {
		if err := s.bridge.Apply(*out.Command); err != nil {
			return fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
	}
	if out.Navigate != "" {
		target := out.Navigate
		if _, err := urlutil.ParseHTTPURL(target); err == nil {
			target = urlutil.ProxyURL(target, s.profile.ID)
		}
		return s.send(TypeLoadURL, LoadURLPayload{URL: target})
	}
	return nil
}

func (s *Session) sendCommand(cmd SurfaceCommand) {
	if err := s.send(TypeCommand, cmd); err != nil {
		s.logger.Debug("surface command not delivered",
			slog.String("op", cmd.Op),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Session) forwardEvent(ev mediabridge.Event) error {
	if err := s.send(TypeEvent, EventPayload{Event: ev, Mirrored: s.mirroring.Load()}); err != nil {
		return err
	}
	return s.send(TypePlayerState, playerStateFrom(s.bridge.Snapshot()))
}

func (s *Session) onTick(ps mediabridge.PlayerState) {
	if err := s.send(TypePlayerState, playerStateFrom(ps)); err != nil {
		s.logger.Log(context.Background(), observability.LevelTrace, "player state not delivered",
			slog.String("error", err.Error()),
		)
	}
}

func (s *Session) onLayer(top compositor.Layer) {
	if err := s.send(TypeLayer, LayerPayload{Top: top}); err != nil {
		s.logger.Debug("layer change not delivered", slog.String("error", err.Error()))
	}
}

func (s *Session) send(typ string, payload any) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	msg, err := NewMessage(typ, payload)
	if err != nil {
		return err
	}
	return s.transport.Send(msg)
}

// Info is a read-only summary of a session.
type Info struct {
	ID        string                  `json:"id"`
	ProfileID string                  `json:"profile_id"`
	ClassID   string                  `json:"class_id"`
	CreatedAt time.Time               `json:"created_at"`
	LastSeen  time.Time               `json:"last_seen"`
	Top       string                  `json:"top"`
	Player    mediabridge.PlayerState `json:"player"`
}

// Info summarises the session.
func (s *Session) Info() Info {
	return Info{
		ID:        s.id,
		ProfileID: s.profile.ID,
		ClassID:   s.profile.ClassID,
		CreatedAt: s.createdAt,
		LastSeen:  s.LastSeen(),
		Top:       s.compositor.Top().String(),
		Player:    s.bridge.Snapshot(),
	}
}
