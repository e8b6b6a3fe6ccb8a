package session

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/yasem/internal/compositor"
	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/mediabridge"
	"github.com/jmylchreest/yasem/internal/remote"
)

// Message is the envelope exchanged between the host page and the server,
// and between the host page and the portal frame.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Transport-only message types. The host UI types (yasem:play, yasem:pause,
// ...) are the compositor's.
const (
	// TypeHello is the first server message of a session.
	TypeHello = "yasem:hello"
	// TypeKey carries a host key-down to the translator.
	TypeKey = "yasem:key"
	// TypeKeydown is a translated key to dispatch into the portal.
	TypeKeydown = "yasem:keydown"
	// TypeAction is a translated host action (back, fullscreen, ...).
	TypeAction = "yasem:action"
	// TypeTelemetry reports the host video element's properties.
	TypeTelemetry = "yasem:telemetry"
	// TypeLayer announces the top layer.
	TypeLayer = "yasem:layer"
	// TypeCommand drives the host video element.
	TypeCommand = "yasem:command"
	// TypeInvoke mirrors a legacy API call made by the portal.
	TypeInvoke = "yasem:invoke"
	// TypeResult answers an invoke that carried an id.
	TypeResult = "yasem:result"
	// TypeEvent carries a device or player event.
	TypeEvent = "yasem:event"
	// TypePlayerState is the player snapshot broadcast into the portal.
	TypePlayerState = "yasem:playerState"
	// TypeLoadURL tells the host to navigate the portal frame.
	TypeLoadURL = compositor.MessageLoadURL
	// TypeError reports a rejected message.
	TypeError = "yasem:error"
)

// portalEvents are the lifecycle notifications a device script posts to its
// parent frame. The session already raised them itself, so they are dropped.
var portalEvents = map[string]bool{
	"yasem:" + mediabridge.EventMediaStarted:  true,
	"yasem:" + mediabridge.EventMediaPaused:   true,
	"yasem:" + mediabridge.EventMediaPlaying:  true,
	"yasem:" + mediabridge.EventMediaStopped:  true,
	"yasem:" + mediabridge.EventVolumeChanged: true,
	"yasem:" + mediabridge.EventMuteChanged:   true,
	"yasem:" + mediabridge.EventSpeedChanged:  true,
	"yasem:" + mediabridge.EventLoopChanged:   true,
	"yasem:" + mediabridge.EventAspectChanged: true,

	"yasem:" + emulation.EventTopWindowChanged: true,
	"yasem:" + emulation.EventViewportChanged:  true,
	"yasem:" + emulation.EventShowSubtitle:     true,
	"yasem:" + emulation.EventPortalEvent:      true,
}

// IsPortalEvent reports whether typ is a device script lifecycle notification.
func IsPortalEvent(typ string) bool {
	return portalEvents[typ]
}

// NewMessage encodes payload into a message of type typ.
func NewMessage(typ string, payload any) (Message, error) {
	msg := Message{Type: typ}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return msg, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	msg.Payload = raw
	return msg, nil
}

// Decode unmarshals the payload into v. An absent payload leaves v untouched.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", m.Type, err)
	}
	return nil
}

// HelloPayload describes the session to the host page.
type HelloPayload struct {
	SessionID string                  `json:"sessionId"`
	ProfileID string                  `json:"profileId"`
	ClassID   string                  `json:"classId"`
	PortalURL string                  `json:"portalUrl"`
	Top       compositor.Layer        `json:"top"`
	KeyMap    remote.KeyMap           `json:"keyMap"`
	Player    mediabridge.PlayerState `json:"player"`
}

// KeyPayload is a host key-down. Screen defaults to the portal screen.
type KeyPayload struct {
	remote.KeyEvent
	Screen *remote.Screen `json:"screen,omitempty"`
}

// KeydownPayload is dispatched into the portal as a synthetic KeyboardEvent.
type KeydownPayload struct {
	KeyCode  int  `json:"keyCode"`
	Which    int  `json:"which"`
	ShiftKey bool `json:"shiftKey"`
	CtrlKey  bool `json:"ctrlKey"`
	AltKey   bool `json:"altKey"`
	MetaKey  bool `json:"metaKey"`
}

func keydownFrom(k remote.ForwardedKey) KeydownPayload {
	return KeydownPayload{
		KeyCode:  k.KeyCode,
		Which:    k.Which,
		ShiftKey: k.Modifiers&remote.ModShift != 0,
		CtrlKey:  k.Modifiers&remote.ModCtrl != 0,
		AltKey:   k.Modifiers&remote.ModAlt != 0,
		MetaKey:  k.Modifiers&remote.ModMeta != 0,
	}
}

// ActionPayload is a host action decided by the translator.
type ActionPayload struct {
	Action   remote.Action `json:"action"`
	Selected int           `json:"selected"`
}

// TelemetryPayload reports the host video element. Times are in seconds.
type TelemetryPayload struct {
	Paused      bool     `json:"paused"`
	Ended       bool     `json:"ended"`
	CurrentTime float64  `json:"currentTime"`
	Duration    float64  `json:"duration"`
	BufferedEnd *float64 `json:"bufferedEnd,omitempty"`
	VideoWidth  int      `json:"videoWidth"`
	VideoHeight int      `json:"videoHeight"`
}

// LayerPayload names the top layer.
type LayerPayload struct {
	Top compositor.Layer `json:"top"`
}

// Surface command operations.
const (
	OpSource     = "src"
	OpLoad       = "load"
	OpPlay       = "play"
	OpPause      = "pause"
	OpSeek       = "currentTime"
	OpVolume     = "volume"
	OpMuted      = "muted"
	OpRate       = "playbackRate"
	OpLoop       = "loop"
	OpAudioTrack = "audioTrack"
)

// SurfaceCommand is one property write or method call on the host video element.
type SurfaceCommand struct {
	Op    string  `json:"op"`
	URL   string  `json:"url,omitempty"`
	Value float64 `json:"value,omitempty"`
	Flag  bool    `json:"flag,omitempty"`
}

// InvokePayload is a legacy API call. ID is set when a result is wanted.
type InvokePayload struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Args []any  `json:"args,omitempty"`
}

// ResultPayload answers an InvokePayload with an id.
type ResultPayload struct {
	ID    string `json:"id"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// EventPayload carries an event to the host. Mirrored events were already
// raised inside the portal and must not be dispatched into it again.
type EventPayload struct {
	mediabridge.Event
	Mirrored bool `json:"mirrored"`
}

// PlayerStatePayload is the snapshot the portal merges into its state.
type PlayerStatePayload struct {
	State    mediabridge.MediaStatus `json:"state"`
	Position int64                   `json:"position"`
	Duration int64                   `json:"duration"`
	Volume   int                     `json:"volume"`
	Muted    bool                    `json:"muted"`
}

func playerStateFrom(ps mediabridge.PlayerState) PlayerStatePayload {
	return PlayerStatePayload{
		State:    ps.Status,
		Position: ps.Position,
		Duration: ps.Duration,
		Volume:   ps.Volume,
		Muted:    ps.Muted,
	}
}

// LoadURLPayload is the portal frame navigation target.
type LoadURLPayload struct {
	URL string `json:"url"`
}

// ErrorPayload reports why a message was rejected.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
