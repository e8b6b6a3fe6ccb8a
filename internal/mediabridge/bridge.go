package mediabridge

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// DefaultTelemetryInterval is the poll period for position and buffering.
const DefaultTelemetryInterval = 500 * time.Millisecond

// Bridge binds one Surface to one session's player state.
type Bridge struct {
	mu        sync.Mutex
	surface   Surface
	state     PlayerState
	emitter   *Emitter
	logger    *slog.Logger
	translate func(string) string
	onTick    func(PlayerState)

	telemetry telemetry
}

// NewBridge creates a bridge with the default player state and no surface.
func NewBridge(emitter *Emitter, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		state:     DefaultPlayerState(),
		emitter:   emitter,
		logger:    logger,
		telemetry: telemetry{interval: DefaultTelemetryInterval},
	}
}

// WithState replaces the initial player state.
func (b *Bridge) WithState(state PlayerState) *Bridge {
	b.state = state
	return b
}

// WithTelemetryInterval sets the poll period.
func (b *Bridge) WithTelemetryInterval(d time.Duration) *Bridge {
	if d > 0 {
		b.telemetry.interval = d
	}
	return b
}

// WithURLTranslator rewrites every URL handed to Play before it reaches the surface.
func (b *Bridge) WithURLTranslator(fn func(string) string) *Bridge {
	b.translate = fn
	return b
}

// WithTickHook registers fn to receive the state after every telemetry tick.
func (b *Bridge) WithTickHook(fn func(PlayerState)) *Bridge {
	b.onTick = fn
	return b
}

// Attach binds a surface. Current volume, mute, loop and speed are pushed to it.
func (b *Bridge) Attach(s Surface) {
	b.mu.Lock()
	b.surface = s
	if s != nil {
		s.SetVolume(float64(b.state.Volume) / 100)
		s.SetMuted(b.state.Muted)
		s.SetLoop(b.state.Loop)
		s.SetPlaybackRate(b.state.Speed)
	}
	playing := b.state.Status == StatusPlaying
	b.mu.Unlock()

	if s != nil && playing {
		b.StartTelemetry()
	}
}

// Detach stops telemetry and releases the surface.
func (b *Bridge) Detach() {
	b.StopTelemetry()

	b.mu.Lock()
	b.surface = nil
	b.mu.Unlock()
}

// Snapshot returns a copy of the player state.
func (b *Bridge) Snapshot() PlayerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Update applies fn to the player state under the bridge lock. It is used for
// legacy setters that have no surface counterpart (picture controls).
func (b *Bridge) Update(fn func(*PlayerState)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, dur, buf := b.state.Position, b.state.Duration, b.state.Buffering
	fn(&b.state)
	// Telemetry fields belong to the poll.
	b.state.Position, b.state.Duration, b.state.Buffering = pos, dur, buf
}

// TranslateURL applies the configured URL translator.
func (b *Bridge) TranslateURL(url string) string {
	if b.translate == nil {
		return url
	}
	return b.translate(url)
}

// Play starts playback of url. A rejected play request is logged and
// otherwise ignored. mediaStarted is raised even without a surface.
func (b *Bridge) Play(url string, startOffset time.Duration) {
	url = b.TranslateURL(url)

	b.mu.Lock()
	s := b.surface
	if s != nil {
		s.SetSource(url)
		s.Load()
		if startOffset > 0 {
			s.SetCurrentTime(startOffset.Seconds())
		}
		if err := s.Play(); err != nil {
			b.logger.Debug("play request rejected", slog.String("error", err.Error()))
		}
	}
	b.state.URL = url
	b.state.Position = 0
	b.state.Status = StatusPlaying
	b.mu.Unlock()

	if s != nil {
		b.StartTelemetry()
	}
	b.emit(EventMediaStarted, map[string]any{"url": url})
}

// Pause pauses playback. It is a no-op unless the player is playing.
func (b *Bridge) Pause() {
	b.mu.Lock()
	if b.state.Status != StatusPlaying || (b.surface != nil && b.surface.Paused()) {
		b.mu.Unlock()
		return
	}
	if b.surface != nil {
		b.surface.Pause()
	}
	b.state.Status = StatusPaused
	b.mu.Unlock()

	b.emit(EventMediaPaused, nil)
}

// Continue resumes paused playback.
func (b *Bridge) Continue() {
	b.mu.Lock()
	if b.state.URL == "" {
		b.mu.Unlock()
		return
	}
	s := b.surface
	if s != nil {
		if err := s.Play(); err != nil {
			b.logger.Debug("resume request rejected", slog.String("error", err.Error()))
		}
	}
	b.state.Status = StatusPlaying
	b.mu.Unlock()

	if s != nil {
		b.StartTelemetry()
	}
	b.emit(EventMediaPlaying, nil)
}

// Stop pauses, rewinds, and clears the source.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if s := b.surface; s != nil {
		s.Pause()
		s.SetCurrentTime(0)
		s.SetSource("")
		s.Load()
	}
	b.state.Status = StatusStopped
	b.state.URL = ""
	b.state.Position = 0
	b.state.Buffering = 0
	b.mu.Unlock()

	b.StopTelemetry()
	b.emit(EventMediaStopped, nil)
}

// Deinit releases the current source and stops telemetry without raising an event.
func (b *Bridge) Deinit() {
	b.mu.Lock()
	if s := b.surface; s != nil {
		s.Pause()
		s.SetSource("")
	}
	b.state.Status = StatusStopped
	b.state.URL = ""
	b.mu.Unlock()

	b.StopTelemetry()
}

// Seek moves the playhead to ms milliseconds. Player state is left to the poll.
func (b *Bridge) Seek(ms int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface != nil {
		b.surface.SetCurrentTime(float64(ms) / 1000)
	}
}

// SeekPercent moves the playhead to p percent of the duration.
func (b *Bridge) SeekPercent(p float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return
	}
	dur := b.surface.Duration()
	if dur > 0 && !math.IsInf(dur, 0) && !math.IsNaN(dur) {
		b.surface.SetCurrentTime(dur * clampFloat(p, 0, 100) / 100)
	}
}

// SetVolume sets the volume, clamped to 0..100.
func (b *Bridge) SetVolume(v int) {
	v = min(max(v, 0), 100)

	b.mu.Lock()
	if b.surface != nil {
		b.surface.SetVolume(float64(v) / 100)
	}
	b.state.Volume = v
	b.mu.Unlock()

	b.emit(EventVolumeChanged, map[string]any{"volume": v})
}

// SetMute mutes or unmutes.
func (b *Bridge) SetMute(muted bool) {
	b.mu.Lock()
	if b.surface != nil {
		b.surface.SetMuted(muted)
	}
	b.state.Muted = muted
	b.mu.Unlock()

	b.emit(EventMuteChanged, map[string]any{"muted": muted})
}

// SetSpeed sets the playback rate. Non-positive rates reset to 1.
func (b *Bridge) SetSpeed(x float64) {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		x = 1
	}

	b.mu.Lock()
	if b.surface != nil {
		b.surface.SetPlaybackRate(x)
	}
	b.state.Speed = x
	b.mu.Unlock()

	b.emit(EventSpeedChanged, map[string]any{"speed": x})
}

// SetLoop toggles looping.
func (b *Bridge) SetLoop(loop bool) {
	b.mu.Lock()
	if b.surface != nil {
		b.surface.SetLoop(loop)
	}
	b.state.Loop = loop
	b.mu.Unlock()

	b.emit(EventLoopChanged, map[string]any{"loop": loop})
}

// SetAspect records the aspect ratio. The host page applies it to the video layer.
func (b *Bridge) SetAspect(ratio string) {
	if !IsAspectRatio(ratio) {
		ratio = "auto"
	}

	b.mu.Lock()
	b.state.AspectRatio = ratio
	b.mu.Unlock()

	b.emit(EventAspectChanged, map[string]any{"aspectRatio": ratio, "objectFit": ObjectFit(ratio)})
}

// SetAudioTrack selects an audio track.
func (b *Bridge) SetAudioTrack(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface != nil {
		b.surface.SelectAudioTrack(id)
	}
	b.state.AudioTrack = id
}

// VideoSize reports the surface's intrinsic video size, or zero without a surface.
func (b *Bridge) VideoSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return 0, 0
	}
	return b.surface.VideoSize()
}

func (b *Bridge) emit(name string, payload map[string]any) {
	b.emitter.Emit(Event{Name: name, Payload: payload})
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
