package emulation

import (
	"strings"
	"unicode"

	"github.com/jmylchreest/yasem/internal/mediabridge"
)

// dunehd config keys.
const (
	ConfigKeyDuneSubmodel = "dunehd/submodel"
	ConfigKeyDuneMAC      = "dunehd/mac_address"
	ConfigKeyDuneSerial   = "dunehd/serial_number"
)

const (
	duneDefaultModel  = "Dune HD TV-102"
	duneDefaultMAC    = "00:22:33:44:55:66"
	duneDefaultSerial = "DUNE0000000001"
	duneVendor        = "Dune HD"
	duneFirmware      = "130516_2058_r5"
	duneAPIVersion    = "1.0"
)

var duneSubmodels = []string{"Dune HD TV-102", "Dune HD Connect"}

func init() {
	register(&family{
		classID:   "dunehd",
		name:      "Dune HD",
		template:  "dunehd",
		submodels: duneSubmodels,
		catalog:   NewCatalog("dunehd", "DuneAPI", duneOps()),
		resolve:   resolveDune,
	})
}

func resolveDune(s *State, config map[string]string) {
	model := configValue(config, duneDefaultModel, ConfigKeyDuneSubmodel, ConfigKeySubmodel)
	s.Identity = Identity{
		Model:     model,
		ProductID: productID(model),
		Serial:    configValue(config, duneDefaultSerial, ConfigKeyDuneSerial),
		MAC:       configValue(config, duneDefaultMAC, ConfigKeyDuneMAC),
		Vendor:    duneVendor,
		Firmware:  duneFirmware,
	}
	s.Network.MAC = s.Identity.MAC
}

// productID replaces every whitespace character of model with an underscore.
func productID(model string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, model)
}

func duneOps() []Op {
	api := object("DuneAPI")
	media := object("Dune.media")
	system := object("Dune.system")

	return []Op{
		api.constant("version", duneAPIVersion),
		api.constant("getVersion", duneAPIVersion),
		api.get("getFirmwareVersion", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
		api.get("getProductId", "return _state.identity.productId;", identity(func(i Identity) string { return i.ProductID })),
		api.get("getSerialNumber", "return _state.identity.serial;", identity(func(i Identity) string { return i.Serial })),
		api.get("getMacAddress", "return _state.identity.mac;", identity(func(i Identity) string { return i.MAC })),

		api.drive("launchMediaURL", "_bridge.play(url, Number(startTime) || 0);", bridgeCall(func(b *mediabridge.Bridge, a Args) {
			b.Play(a.String(0), secondsArg(a, 1))
		}), "url", "startTime"),
		api.drive("stopPlayback", "_bridge.stop();", stopPlayer),
		api.read("isPlaying", "return _bridge.isPlaying();", isPlaying),
		api.drive("setVolume", "_bridge.setVolume(vol);", setVolume, "vol"),
		api.read("getVolume", "return _state.player.volume;", getVolume),
		api.drive("setMute", "_bridge.setMute(_bool(mute));", setMute, "mute"),
		api.read("getMute", "return _state.player.muted;", getMute),
		api.read("getPlaybackPosition", "return _bridge.positionSec();", positionSec),
		api.read("getPlaybackDuration", "return _bridge.durationSec();", durationSec),
		api.drive("seekTo", "_bridge.seek(Number(seconds) * 1000);", seekSeconds, "seconds"),

		api.local("setFullscreen", "var d = window.document; if (_bool(enable)) { if (d.documentElement && d.documentElement.requestFullscreen) { d.documentElement.requestFullscreen(); } } else if (d.exitFullscreen) { d.exitFullscreen(); }", "enable"),
		api.local("exit", "window.history.back();"),
		api.local("openURL", "if (url) { window.location.href = url; }", "url"),

		media.drive("play", "_bridge.play(url);", playURL(0), "url"),
		media.drive("stop", "_bridge.stop();", stopPlayer),
		media.read("isPlaying", "return _bridge.isPlaying();", isPlaying),

		system.get("getModel", "return _state.identity.model;", identity(func(i Identity) string { return i.Model })),
		system.get("getFirmware", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
	}
}
