package mediabridge

import (
	"math"
	"sync"
	"time"
)

// telemetry runs the single poll goroutine of a bridge.
type telemetry struct {
	mu       sync.Mutex
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// StartTelemetry starts the poll if it is not already running.
func (b *Bridge) StartTelemetry() {
	t := &b.telemetry
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go b.pollLoop(t.interval, t.stop, t.done)
}

// StopTelemetry stops the poll and waits for an in-flight tick to finish.
// It must not be called with the bridge lock held.
func (b *Bridge) StopTelemetry() {
	t := &b.telemetry
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// TelemetryRunning reports whether the poll is active.
func (b *Bridge) TelemetryRunning() bool {
	b.telemetry.mu.Lock()
	defer b.telemetry.mu.Unlock()
	return b.telemetry.stop != nil
}

func (b *Bridge) pollLoop(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if state, ok := b.Tick(); ok && b.onTick != nil {
				b.onTick(state)
			}
		}
	}
}

// Tick refreshes position, duration, and buffering from the surface once.
// It reports false when no surface is attached.
func (b *Bridge) Tick() (PlayerState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.surface
	if s == nil {
		return b.state, false
	}

	b.state.Position = toMillis(s.CurrentTime())
	dur := s.Duration()
	if !finitePositive(dur) {
		b.state.Duration = 0
		b.state.Buffering = 0
		return b.state, true
	}
	b.state.Duration = toMillis(dur)

	b.state.Buffering = 0
	if end, ok := s.BufferedEnd(); ok && end >= 0 {
		b.state.Buffering = clampFloat(end/dur*100, 0, 100)
	}
	return b.state, true
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func toMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}
