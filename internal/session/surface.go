package session

import (
	"sync"
)

// RemoteSurface is a mediabridge.Surface backed by the host page's video
// element. Writes become SurfaceCommands; reads come from the last telemetry
// report. Paused reflects the last play or pause request, since telemetry
// lags behind the portal's own element calls.
type RemoteSurface struct {
	mu         sync.Mutex
	send       func(SurfaceCommand)
	suppressed int

	src       string
	paused    bool
	telemetry TelemetryPayload
}

// NewRemoteSurface creates a surface that delivers commands through send.
func NewRemoteSurface(send func(SurfaceCommand)) *RemoteSurface {
	return &RemoteSurface{send: send, paused: true}
}

// Suppress runs fn with command delivery disabled. It is used while applying
// calls the portal has already performed on the element itself.
func (s *RemoteSurface) Suppress(fn func()) {
	s.mu.Lock()
	s.suppressed++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.suppressed--
		s.mu.Unlock()
	}()
	fn()
}

// Update records a telemetry report.
func (s *RemoteSurface) Update(t TelemetryPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = t
}

func (s *RemoteSurface) command(cmd SurfaceCommand) {
	s.mu.Lock()
	suppressed := s.suppressed > 0
	s.mu.Unlock()

	if !suppressed && s.send != nil {
		s.send(cmd)
	}
}

// Source returns the last source set.
func (s *RemoteSurface) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src
}

func (s *RemoteSurface) SetSource(url string) {
	s.mu.Lock()
	s.src = url
	s.paused = true
	s.telemetry = TelemetryPayload{Paused: true}
	s.mu.Unlock()
	s.command(SurfaceCommand{Op: OpSource, URL: url})
}

func (s *RemoteSurface) Load() {
	s.command(SurfaceCommand{Op: OpLoad})
}

func (s *RemoteSurface) Play() error {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.command(SurfaceCommand{Op: OpPlay})
	return nil
}

func (s *RemoteSurface) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.command(SurfaceCommand{Op: OpPause})
}

func (s *RemoteSurface) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *RemoteSurface) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry.Ended
}

func (s *RemoteSurface) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry.CurrentTime
}

func (s *RemoteSurface) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry.Duration
}

func (s *RemoteSurface) BufferedEnd() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.telemetry.BufferedEnd == nil {
		return 0, false
	}
	return *s.telemetry.BufferedEnd, true
}

func (s *RemoteSurface) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	s.telemetry.CurrentTime = seconds
	s.mu.Unlock()
	s.command(SurfaceCommand{Op: OpSeek, Value: seconds})
}

func (s *RemoteSurface) SetVolume(v float64) {
	s.command(SurfaceCommand{Op: OpVolume, Value: v})
}

func (s *RemoteSurface) SetMuted(muted bool) {
	s.command(SurfaceCommand{Op: OpMuted, Flag: muted})
}

func (s *RemoteSurface) SetPlaybackRate(rate float64) {
	s.command(SurfaceCommand{Op: OpRate, Value: rate})
}

func (s *RemoteSurface) SetLoop(loop bool) {
	s.command(SurfaceCommand{Op: OpLoop, Flag: loop})
}

func (s *RemoteSurface) SelectAudioTrack(id int) {
	s.command(SurfaceCommand{Op: OpAudioTrack, Value: float64(id)})
}

func (s *RemoteSurface) VideoSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetry.VideoWidth, s.telemetry.VideoHeight
}
