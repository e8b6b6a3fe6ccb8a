package mediabridge

// Surface is a native media element. Times are in seconds, volume is 0..1,
// matching the HTML media element the host page renders.
type Surface interface {
	SetSource(url string)
	Load()
	Play() error
	Pause()
	Paused() bool
	Ended() bool
	CurrentTime() float64
	Duration() float64
	// BufferedEnd returns the end of the first buffered range.
	BufferedEnd() (float64, bool)
	SetCurrentTime(seconds float64)
	SetVolume(v float64)
	SetMuted(muted bool)
	SetPlaybackRate(rate float64)
	SetLoop(loop bool)
	SelectAudioTrack(id int)
	VideoSize() (width, height int)
}
