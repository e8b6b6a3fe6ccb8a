package mediabridge

import (
	"fmt"
	"log/slog"
)

// Event names raised by the bridge.
const (
	EventMediaStarted  = "mediaStarted"
	EventMediaPaused   = "mediaPaused"
	EventMediaPlaying  = "mediaPlaying"
	EventMediaStopped  = "mediaStopped"
	EventVolumeChanged = "volumeChanged"
	EventMuteChanged   = "muteChanged"
	EventSpeedChanged  = "speedChanged"
	EventLoopChanged   = "loopChanged"
	EventAspectChanged = "aspectChanged"
)

// Event is a named lifecycle or property change.
type Event struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Sink is one emission channel.
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event) error

// Emit calls f.
func (f SinkFunc) Emit(ev Event) error {
	return f(ev)
}

// Emitter delivers every event to the local, parent, and callback channels.
// Delivery is best-effort: a failing or panicking sink is logged and the
// remaining sinks still receive the event.
type Emitter struct {
	local    Sink
	parent   Sink
	callback Sink
	logger   *slog.Logger
}

// NewEmitter creates an emitter. Nil sinks are skipped.
func NewEmitter(local, parent, callback Sink, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{local: local, parent: parent, callback: callback, logger: logger}
}

// Emit sends ev to each channel in turn.
func (e *Emitter) Emit(ev Event) {
	if e == nil {
		return
	}
	e.deliver("local", e.local, ev)
	e.deliver("parent", e.parent, ev)
	e.deliver("callback", e.callback, ev)
}

func (e *Emitter) deliver(channel string, sink Sink, ev Event) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("event sink panicked",
				slog.String("channel", channel),
				slog.String("event", ev.Name),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := sink.Emit(ev); err != nil {
		e.logger.Debug("event delivery failed",
			slog.String("channel", channel),
			slog.String("event", ev.Name),
			slog.String("error", err.Error()),
		)
	}
}
