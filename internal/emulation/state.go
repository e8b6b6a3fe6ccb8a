package emulation

import (
	"maps"

	"github.com/jmylchreest/yasem/internal/mediabridge"
)

// Config keys shared by every family.
const (
	ConfigKeySubmodel          = "profile/submodel"
	ConfigKeyAspectRatio       = "media/aspect_ratio"
	ConfigKeyUseMulticastProxy = "network/use_multicast_proxy"
	ConfigKeyMulticastProxyURL = "network/multicast_proxy_url"
)

// DeviceProfile is the narrow view of a stored profile the engine works from.
type DeviceProfile struct {
	ID        string
	ClassID   string
	Submodel  string
	PortalURL string
	Config    map[string]string
}

// Identity is the resolved hardware identity reported by the emulated API.
type Identity struct {
	Model        string `json:"model"`
	ProductID    string `json:"productId,omitempty"`
	Serial       string `json:"serial"`
	MAC          string `json:"mac"`
	Vendor       string `json:"vendor"`
	Firmware     string `json:"firmware"`
	TizenVersion string `json:"tizenVersion,omitempty"`
	DUID         string `json:"duid,omitempty"`
}

// Network is the reported network configuration.
type Network struct {
	IP      string `json:"ip"`
	MAC     string `json:"mac"`
	Gateway string `json:"gateway"`
	DNS     string `json:"dns"`
}

// AVPlay states reported by the samsung player object.
const (
	AVPlayNone    = "NONE"
	AVPlayIdle    = "IDLE"
	AVPlayReady   = "READY"
	AVPlayPlaying = "PLAYING"
	AVPlayPaused  = "PAUSED"
)

// AVPlayState tracks the samsung avplay object, which keeps its own URL and
// state machine on top of the shared player state.
type AVPlayState struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// State is the per-session emulated device state. It is serialised verbatim
// into the generated script.
type State struct {
	Player               mediabridge.PlayerState `json:"player"`
	Identity             Identity                `json:"identity"`
	Network              Network                 `json:"network"`
	Env                  map[string]string       `json:"env"`
	TopWindow            int                     `json:"topWindow"`
	AlphaLevel           int                     `json:"alphaLevel"`
	ChromaKey            int                     `json:"chromaKey"`
	SubtitlesEnabled     bool                    `json:"subtitlesEnabled"`
	SubtitlePID          int                     `json:"subtitlePid"`
	InternalPortalActive bool                    `json:"internalPortalActive"`
	WebMode              bool                    `json:"webMode"`
	AVPlay               *AVPlayState            `json:"avplay,omitempty"`
}

const (
	defaultAlphaLevel = 255
	defaultChromaKey  = 0x00100400
)

func newState(config map[string]string) *State {
	player := mediabridge.DefaultPlayerState()
	if ratio := config[ConfigKeyAspectRatio]; mediabridge.IsAspectRatio(ratio) {
		player.AspectRatio = ratio
	}
	return &State{
		Player:     player,
		Env:        map[string]string{},
		AlphaLevel: defaultAlphaLevel,
		ChromaKey:  defaultChromaKey,
		Network: Network{
			IP:      "192.168.1.100",
			Gateway: "192.168.1.1",
			DNS:     "8.8.8.8",
		},
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Env = maps.Clone(s.Env)
	if c.Env == nil {
		c.Env = map[string]string{}
	}
	if s.AVPlay != nil {
		av := *s.AVPlay
		c.AVPlay = &av
	}
	return &c
}

// configValue returns the first non-empty config entry among keys, or def.
func configValue(config map[string]string, def string, keys ...string) string {
	for _, k := range keys {
		if v := config[k]; v != "" {
			return v
		}
	}
	return def
}
