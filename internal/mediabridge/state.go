// Package mediabridge adapts a native media-playback surface to the legacy
// synchronous player API used by set-top-box portals.
//
// A Bridge owns the player sub-state of one session. Lifecycle calls
// (Play, Pause, Stop) and property setters update it directly; position,
// duration, and buffering are refreshed only by the telemetry poll.
package mediabridge

// MediaStatus is the legacy player state vocabulary.
type MediaStatus string

const (
	StatusStopped   MediaStatus = "stopped"
	StatusPlaying   MediaStatus = "playing"
	StatusPaused    MediaStatus = "paused"
	StatusBuffering MediaStatus = "buffering"
	StatusError     MediaStatus = "error"
)

// Aspect ratios understood by the host page.
var AspectRatios = []string{"auto", "1:1", "5:4", "4:3", "16:9", "16:10", "fill", "expanding"}

// ObjectFit maps an aspect ratio to the CSS object-fit value the host page
// applies to the video layer.
func ObjectFit(aspect string) string {
	switch aspect {
	case "fill":
		return "fill"
	case "expanding":
		return "cover"
	default:
		return "contain"
	}
}

// IsAspectRatio reports whether s is a known aspect ratio.
func IsAspectRatio(s string) bool {
	for _, a := range AspectRatios {
		if a == s {
			return true
		}
	}
	return false
}

// PlayerState is the player portion of an emulated device's state.
// Position and Duration are milliseconds; Buffering is a percentage.
type PlayerState struct {
	URL         string      `json:"url"`
	Status      MediaStatus `json:"state"`
	Position    int64       `json:"position"`
	Duration    int64       `json:"duration"`
	Volume      int         `json:"volume"`
	Muted       bool        `json:"muted"`
	Loop        bool        `json:"loop"`
	AspectRatio string      `json:"aspectRatio"`
	Brightness  int         `json:"brightness"`
	Contrast    int         `json:"contrast"`
	Saturation  int         `json:"saturation"`
	AudioTrack  int         `json:"audioTrack"`
	Speed       float64     `json:"speed"`
	Buffering   float64     `json:"buffering"`
}

// DefaultPlayerState returns the power-on player state.
func DefaultPlayerState() PlayerState {
	return PlayerState{
		Status:      StatusStopped,
		Volume:      100,
		AspectRatio: "auto",
		Brightness:  50,
		Contrast:    50,
		Saturation:  50,
		Speed:       1,
	}
}
