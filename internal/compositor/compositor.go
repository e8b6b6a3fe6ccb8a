// Package compositor decides which of the two stacked host layers, the
// portal frame or the video surface, is on top.
package compositor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmylchreest/yasem/internal/mediabridge"
)

// Layer is one of the two host layers.
type Layer int

const (
	LayerPortal Layer = iota
	LayerVideo
)

func (l Layer) String() string {
	if l == LayerVideo {
		return "video"
	}
	return "portal"
}

// MarshalText renders the layer name.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a layer name.
func (l *Layer) UnmarshalText(b []byte) error {
	switch string(b) {
	case "portal":
		*l = LayerPortal
	case "video":
		*l = LayerVideo
	default:
		return fmt.Errorf("unknown layer %q", b)
	}
	return nil
}

// Host-side cross-frame message types handled by the compositor.
const (
	MessagePlay      = "yasem:play"
	MessagePause     = "yasem:pause"
	MessageStop      = "yasem:stop"
	MessageSetVolume = "yasem:setVolume"
	MessageSetMute   = "yasem:setMute"
	MessageSeek      = "yasem:seek"
	MessageSetLoop   = "yasem:setLoop"
	MessageTopWindow = "yasem:topWindow"
	MessageLoadURL   = "yasem:loadUrl"
)

// eventTopWindowChanged is raised by the device when a portal selects a window.
const eventTopWindowChanged = "topWindowChanged"

// Outcome is the result of a host message.
type Outcome struct {
	// Command is handed to the media bridge, if set.
	Command *mediabridge.Command
	// Navigate is the URL the portal frame should load, if set.
	Navigate string
}

// Compositor tracks the top layer. It only changes z-order and never pauses
// a layer.
type Compositor struct {
	mu        sync.Mutex
	top       Layer
	listeners []func(Layer)
}

// New returns a compositor with the portal on top.
func New() *Compositor {
	return &Compositor{top: LayerPortal}
}

// OnChange registers fn to run after every change of the top layer.
func (c *Compositor) OnChange(fn func(Layer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Top returns the current top layer.
func (c *Compositor) Top() Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.top
}

// SetTop raises l.
func (c *Compositor) SetTop(l Layer) {
	c.mu.Lock()
	if c.top == l {
		c.mu.Unlock()
		return
	}
	c.top = l
	listeners := append([]func(Layer){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(l)
	}
}

// SetTopWindow applies the legacy window selector: 1 is the video layer,
// anything else the portal.
func (c *Compositor) SetTopWindow(winNum int) {
	if winNum == 1 {
		c.SetTop(LayerVideo)
		return
	}
	c.SetTop(LayerPortal)
}

// HandleMediaEvent reacts to media bridge and device events.
func (c *Compositor) HandleMediaEvent(ev mediabridge.Event) {
	switch ev.Name {
	case mediabridge.EventMediaStarted:
		c.SetTop(LayerVideo)
	case mediabridge.EventMediaStopped:
		c.SetTop(LayerPortal)
	case eventTopWindowChanged:
		c.SetTopWindow(payloadInt(ev.Payload, "winNum"))
	}
}

// Emit implements mediabridge.Sink so the compositor can sit on an emitter.
func (c *Compositor) Emit(ev mediabridge.Event) error {
	c.HandleMediaEvent(ev)
	return nil
}

// HandleMessage applies a host-side cross-frame message.
func (c *Compositor) HandleMessage(msgType string, payload json.RawMessage) (Outcome, error) {
	var p struct {
		URL      string  `json:"url"`
		Volume   float64 `json:"volume"`
		Muted    bool    `json:"muted"`
		Position float64 `json:"position"`
		Loop     bool    `json:"loop"`
		WinNum   int     `json:"winNum"`
	}
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &p); err != nil {
			return Outcome{}, fmt.Errorf("decoding %s payload: %w", msgType, err)
		}
	}

	switch msgType {
	case MessagePlay:
		c.SetTop(LayerVideo)
		return command(mediabridge.Command{Type: mediabridge.CommandPlay, URL: p.URL}), nil
	case MessagePause:
		return command(mediabridge.Command{Type: mediabridge.CommandPause}), nil
	case MessageStop:
		c.SetTop(LayerPortal)
		return command(mediabridge.Command{Type: mediabridge.CommandStop}), nil
	case MessageSetVolume:
		return command(mediabridge.Command{Type: mediabridge.CommandSetVolume, Volume: int(p.Volume)}), nil
	case MessageSetMute:
		return command(mediabridge.Command{Type: mediabridge.CommandSetMute, Flag: p.Muted}), nil
	case MessageSeek:
		return command(mediabridge.Command{Type: mediabridge.CommandSeek, Position: int64(p.Position)}), nil
	case MessageSetLoop:
		return command(mediabridge.Command{Type: mediabridge.CommandSetLoop, Flag: p.Loop}), nil
	case MessageTopWindow:
		c.SetTopWindow(p.WinNum)
		return Outcome{}, nil
	case MessageLoadURL:
		return Outcome{Navigate: p.URL}, nil
	default:
		return Outcome{}, fmt.Errorf("unknown host message %q", msgType)
	}
}

func command(cmd mediabridge.Command) Outcome {
	return Outcome{Command: &cmd}
}

func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
