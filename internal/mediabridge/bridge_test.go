package mediabridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	mu          sync.Mutex
	src         string
	paused      bool
	current     float64
	duration    float64
	bufferedEnd float64
	hasBuffered bool
	volume      float64
	muted       bool
	rate        float64
	loop        bool
	track       int
	playErr     error
	loads       int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{paused: true, rate: 1}
}

func (f *fakeSurface) SetSource(url string) { f.mu.Lock(); f.src = url; f.mu.Unlock() }
func (f *fakeSurface) Load()                { f.mu.Lock(); f.loads++; f.mu.Unlock() }
func (f *fakeSurface) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.paused = false
	return nil
}
func (f *fakeSurface) Pause()                { f.mu.Lock(); f.paused = true; f.mu.Unlock() }
func (f *fakeSurface) Paused() bool          { f.mu.Lock(); defer f.mu.Unlock(); return f.paused }
func (f *fakeSurface) Ended() bool           { return false }
func (f *fakeSurface) CurrentTime() float64  { f.mu.Lock(); defer f.mu.Unlock(); return f.current }
func (f *fakeSurface) Duration() float64     { f.mu.Lock(); defer f.mu.Unlock(); return f.duration }
func (f *fakeSurface) SetCurrentTime(s float64) {
	f.mu.Lock()
	f.current = s
	f.mu.Unlock()
}
func (f *fakeSurface) BufferedEnd() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bufferedEnd, f.hasBuffered
}
func (f *fakeSurface) SetVolume(v float64)          { f.mu.Lock(); f.volume = v; f.mu.Unlock() }
func (f *fakeSurface) SetMuted(m bool)              { f.mu.Lock(); f.muted = m; f.mu.Unlock() }
func (f *fakeSurface) SetPlaybackRate(r float64)    { f.mu.Lock(); f.rate = r; f.mu.Unlock() }
func (f *fakeSurface) SetLoop(l bool)               { f.mu.Lock(); f.loop = l; f.mu.Unlock() }
func (f *fakeSurface) SelectAudioTrack(id int)      { f.mu.Lock(); f.track = id; f.mu.Unlock() }
func (f *fakeSurface) VideoSize() (int, int)        { return 1920, 1080 }

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Name
	}
	return out
}

func newTestBridge(t *testing.T) (*Bridge, *fakeSurface, *recorder) {
	t.Helper()
	rec := &recorder{}
	b := NewBridge(NewEmitter(rec, nil, nil, nil), nil).WithTelemetryInterval(10 * time.Millisecond)
	s := newFakeSurface()
	b.Attach(s)
	t.Cleanup(b.Detach)
	return b, s, rec
}

func TestBridge_StateMachine(t *testing.T) {
	b, s, rec := newTestBridge(t)

	b.Play("http://media.example.test/a.ts", 0)
	assert.Equal(t, StatusPlaying, b.Snapshot().Status)
	assert.Equal(t, "http://media.example.test/a.ts", s.src)
	assert.False(t, s.Paused())
	assert.True(t, b.TelemetryRunning())

	b.Pause()
	assert.Equal(t, StatusPaused, b.Snapshot().Status)
	assert.True(t, s.Paused())

	b.Continue()
	assert.Equal(t, StatusPlaying, b.Snapshot().Status)

	s.SetCurrentTime(42)
	b.Stop()
	state := b.Snapshot()
	assert.Equal(t, StatusStopped, state.Status)
	assert.Equal(t, int64(0), state.Position)
	assert.Empty(t, state.URL)
	assert.Equal(t, 0.0, s.CurrentTime())
	assert.Empty(t, s.src)
	assert.False(t, b.TelemetryRunning())

	assert.Equal(t, []string{EventMediaStarted, EventMediaPaused, EventMediaPlaying, EventMediaStopped}, rec.names())
}

func TestBridge_PauseWhileStoppedIsNoop(t *testing.T) {
	b, _, rec := newTestBridge(t)

	b.Pause()
	assert.Equal(t, StatusStopped, b.Snapshot().Status)
	assert.Empty(t, rec.names())
}

func TestBridge_PauseWhenSurfaceAlreadyPaused(t *testing.T) {
	b, s, rec := newTestBridge(t)

	b.Play("http://media.example.test/a.ts", 0)
	s.Pause()
	b.Pause()

	assert.Equal(t, StatusPlaying, b.Snapshot().Status)
	assert.Equal(t, []string{EventMediaStarted}, rec.names())
}

func TestBridge_PlayRejectionIsSwallowed(t *testing.T) {
	b, s, rec := newTestBridge(t)
	s.playErr = errors.New("NotAllowedError")

	b.Play("http://media.example.test/a.ts", 0)
	assert.Equal(t, StatusPlaying, b.Snapshot().Status)
	assert.Equal(t, []string{EventMediaStarted}, rec.names())
}

func TestBridge_PlayWithoutSurface(t *testing.T) {
	rec := &recorder{}
	b := NewBridge(NewEmitter(rec, nil, nil, nil), nil)

	b.Play("http://media.example.test/a.ts", 0)
	assert.Equal(t, StatusPlaying, b.Snapshot().Status)
	assert.False(t, b.TelemetryRunning())
	require.Len(t, rec.events, 1)
	assert.Equal(t, "http://media.example.test/a.ts", rec.events[0].Payload["url"])
}

func TestBridge_PlayStartOffsetAndTranslator(t *testing.T) {
	b, s, _ := newTestBridge(t)
	b.WithURLTranslator(func(u string) string { return "http://proxy/" + u })

	b.Play("udp://239.1.1.1:1234", 5*time.Second)
	assert.Equal(t, "http://proxy/udp://239.1.1.1:1234", s.src)
	assert.Equal(t, 5.0, s.CurrentTime())
	assert.Equal(t, "http://proxy/udp://239.1.1.1:1234", b.Snapshot().URL)
}

func TestBridge_Setters(t *testing.T) {
	b, s, rec := newTestBridge(t)

	b.SetVolume(150)
	assert.Equal(t, 100, b.Snapshot().Volume)
	assert.Equal(t, 1.0, s.volume)
	b.SetVolume(-3)
	assert.Equal(t, 0, b.Snapshot().Volume)
	b.SetVolume(40)
	assert.InDelta(t, 0.4, s.volume, 1e-9)

	b.SetMute(true)
	assert.True(t, b.Snapshot().Muted)
	assert.True(t, s.muted)

	b.SetSpeed(2)
	assert.Equal(t, 2.0, b.Snapshot().Speed)
	b.SetSpeed(0)
	assert.Equal(t, 1.0, s.rate)

	b.SetLoop(true)
	assert.True(t, s.loop)

	b.SetAspect("16:9")
	assert.Equal(t, "16:9", b.Snapshot().AspectRatio)
	b.SetAspect("bogus")
	assert.Equal(t, "auto", b.Snapshot().AspectRatio)

	b.SetAudioTrack(3)
	assert.Equal(t, 3, s.track)
	assert.Equal(t, 3, b.Snapshot().AudioTrack)

	assert.Equal(t, []string{
		EventVolumeChanged, EventVolumeChanged, EventVolumeChanged,
		EventMuteChanged, EventSpeedChanged, EventSpeedChanged,
		EventLoopChanged, EventAspectChanged, EventAspectChanged,
	}, rec.names())
}

func TestBridge_SeekLeavesStateToTelemetry(t *testing.T) {
	b, s, _ := newTestBridge(t)
	s.duration = 100

	b.Seek(12500)
	assert.Equal(t, 12.5, s.CurrentTime())
	assert.Equal(t, int64(0), b.Snapshot().Position)

	b.SeekPercent(50)
	assert.Equal(t, 50.0, s.CurrentTime())

	state, ok := b.Tick()
	require.True(t, ok)
	assert.Equal(t, int64(50000), state.Position)
}

func TestBridge_Tick(t *testing.T) {
	b, s, _ := newTestBridge(t)

	s.current, s.duration = 10, 200
	s.bufferedEnd, s.hasBuffered = 50, true
	state, ok := b.Tick()
	require.True(t, ok)
	assert.Equal(t, int64(10000), state.Position)
	assert.Equal(t, int64(200000), state.Duration)
	assert.Equal(t, 25.0, state.Buffering)

	s.duration = 0
	state, _ = b.Tick()
	assert.Equal(t, 0.0, state.Buffering)
	assert.Equal(t, int64(0), state.Duration)
}

func TestBridge_TelemetryPolls(t *testing.T) {
	ticks := make(chan PlayerState, 16)
	rec := &recorder{}
	b := NewBridge(NewEmitter(rec, nil, nil, nil), nil).
		WithTelemetryInterval(5 * time.Millisecond).
		WithTickHook(func(s PlayerState) {
			select {
			case ticks <- s:
			default:
			}
		})
	s := newFakeSurface()
	s.current, s.duration = 3, 60
	b.Attach(s)
	defer b.Detach()

	b.Play("http://media.example.test/a.ts", 0)
	s.SetCurrentTime(3)

	assert.Eventually(t, func() bool {
		return b.Snapshot().Position == 3000
	}, time.Second, 5*time.Millisecond)

	b.Stop()
	assert.False(t, b.TelemetryRunning())
}

func TestBridge_UpdateProtectsTelemetryFields(t *testing.T) {
	b, s, _ := newTestBridge(t)
	s.current, s.duration = 1, 10
	b.Tick()

	b.Update(func(p *PlayerState) {
		p.Brightness = 70
		p.Position = 999999
		p.Duration = 1
	})

	state := b.Snapshot()
	assert.Equal(t, 70, state.Brightness)
	assert.Equal(t, int64(1000), state.Position)
	assert.Equal(t, int64(10000), state.Duration)
}

func TestBridge_Detach(t *testing.T) {
	b, _, _ := newTestBridge(t)
	b.Play("http://media.example.test/a.ts", 0)

	b.Detach()
	assert.False(t, b.TelemetryRunning())
	_, ok := b.Tick()
	assert.False(t, ok)
	w, h := b.VideoSize()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestBridge_Apply(t *testing.T) {
	b, s, _ := newTestBridge(t)

	require.NoError(t, b.Apply(Command{Type: CommandPlay, URL: "http://media.example.test/a.ts"}))
	require.NoError(t, b.Apply(Command{Type: CommandSetVolume, Volume: 20}))
	require.NoError(t, b.Apply(Command{Type: CommandSetMute, Flag: true}))
	require.NoError(t, b.Apply(Command{Type: CommandSeek, Position: 2000}))
	require.NoError(t, b.Apply(Command{Type: CommandSetLoop, Flag: true}))
	require.NoError(t, b.Apply(Command{Type: CommandSetSpeed, Speed: 1.5}))
	require.NoError(t, b.Apply(Command{Type: CommandSetAspect, Aspect: "4:3"}))
	require.NoError(t, b.Apply(Command{Type: CommandPause}))

	state := b.Snapshot()
	assert.Equal(t, StatusPaused, state.Status)
	assert.Equal(t, 20, state.Volume)
	assert.True(t, state.Muted)
	assert.True(t, state.Loop)
	assert.Equal(t, 1.5, state.Speed)
	assert.Equal(t, "4:3", state.AspectRatio)
	assert.Equal(t, 2.0, s.CurrentTime())

	require.NoError(t, b.Apply(Command{Type: CommandStop}))
	assert.Equal(t, StatusStopped, b.Snapshot().Status)

	assert.Error(t, b.Apply(Command{Type: "rewind"}))
}

func TestEmitter_BestEffort(t *testing.T) {
	var got []string
	local := SinkFunc(func(ev Event) error { panic("boom") })
	parent := SinkFunc(func(ev Event) error { return errors.New("cross-origin") })
	callback := SinkFunc(func(ev Event) error {
		got = append(got, ev.Name)
		return nil
	})

	e := NewEmitter(local, parent, callback, nil)
	assert.NotPanics(t, func() { e.Emit(Event{Name: EventMediaStarted}) })
	assert.Equal(t, []string{EventMediaStarted}, got)

	var nilEmitter *Emitter
	assert.NotPanics(t, func() { nilEmitter.Emit(Event{Name: "x"}) })
}

func TestObjectFit(t *testing.T) {
	assert.Equal(t, "fill", ObjectFit("fill"))
	assert.Equal(t, "cover", ObjectFit("expanding"))
	assert.Equal(t, "contain", ObjectFit("16:9"))
	assert.True(t, IsAspectRatio("16:10"))
	assert.False(t, IsAspectRatio("21:9"))
}

func TestBridge_DeinitRaisesNoEvent(t *testing.T) {
	b, s, rec := newTestBridge(t)
	b.Play("http://media.example.test/a.ts", 0)

	b.Deinit()
	assert.Equal(t, StatusStopped, b.Snapshot().Status)
	assert.Empty(t, s.src)
	assert.False(t, b.TelemetryRunning())
	assert.Equal(t, []string{EventMediaStarted}, rec.names())
}
