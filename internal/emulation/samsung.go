package emulation

import "github.com/jmylchreest/yasem/internal/mediabridge"

// samsung config keys.
const (
	ConfigKeySamsungModel = "samsung/model"
	ConfigKeyTizenVersion = "samsung/tizen_version"
)

const (
	samsungDefaultModel = "Samsung SmartTV 2015"
	samsungMAC          = "00:11:22:33:44:55"
	samsungDUID         = "SAMSUNG0000000001"
	samsungFirmware     = "T-HKMAKUC-1252.3"
	samsungTizen        = "2.3"
	samsungVendor       = "Samsung"
)

var samsungSubmodels = []string{"Samsung SmartTV 2015"}

func init() {
	register(&family{
		classID:   "samsung",
		name:      "Samsung Smart TV",
		template:  "samsung",
		submodels: samsungSubmodels,
		catalog:   NewCatalog("samsung", "webapis.avplay", samsungOps()),
		resolve:   resolveSamsung,
	})
}

func resolveSamsung(s *State, config map[string]string) {
	s.Identity = Identity{
		Model:        configValue(config, samsungDefaultModel, ConfigKeySamsungModel, ConfigKeySubmodel),
		Serial:       samsungDUID,
		MAC:          samsungMAC,
		Vendor:       samsungVendor,
		Firmware:     samsungFirmware,
		TizenVersion: configValue(config, samsungTizen, ConfigKeyTizenVersion),
		DUID:         samsungDUID,
	}
	s.Network.MAC = samsungMAC
	s.AVPlay = &AVPlayState{State: AVPlayNone}
}

func avplay(fn func(av *AVPlayState, d *Device, a Args)) OpFunc {
	return func(d *Device, a Args) (Value, error) {
		if d.state.AVPlay == nil {
			d.state.AVPlay = &AVPlayState{State: AVPlayNone}
		}
		fn(d.state.AVPlay, d, a)
		return nil, nil
	}
}

func avplayPosition(d *Device) int64 {
	return d.player().Position
}

const notSupported = "if (typeof errorCb === 'function') { errorCb({ name: 'NotSupportedError', message: 'Not supported' }); }"

func samsungOps() []Op {
	av := object("webapis.avplay")
	channel := object("webapis.tv.channel")
	display := object("webapis.tv.displaycontrol")
	input := object("webapis.tv.inputdevice")
	network := object("webapis.network")
	product := object("webapis.productinfo")
	appcommon := object("webapis.appcommon")
	billing := object("webapis.billing")
	application := object("tizen.application")
	systeminfo := object("tizen.systeminfo")
	filesystem := object("tizen.filesystem")
	widget := object("sf.service.WidgetAPI")

	return []Op{
		av.set("open", "_state.avplay.url = url; _state.avplay.state = 'IDLE';", avplay(func(s *AVPlayState, _ *Device, a Args) {
			s.URL = a.String(0)
			s.State = AVPlayIdle
		}), "url"),
		av.drive("close", "_bridge.stop(); _state.avplay.state = 'NONE';", avplay(func(s *AVPlayState, d *Device, _ Args) {
			d.bridge.Stop()
			s.State = AVPlayNone
		})),
		av.set("prepare", "_avPrepare();",
			avplay(func(s *AVPlayState, _ *Device, _ Args) { s.State = AVPlayReady })),
		av.set("prepareAsync", "try { _avPrepare(); if (typeof successCb === 'function') { successCb(); } } catch (e) { if (typeof errorCb === 'function') { errorCb(e); } }",
			avplay(func(s *AVPlayState, _ *Device, _ Args) { s.State = AVPlayReady }), "successCb", "errorCb"),
		av.drive("play", "if (_state.avplay.state === 'PAUSED') { _bridge.resume(); } else { _bridge.play(_state.avplay.url); } _state.avplay.state = 'PLAYING';",
			avplay(func(s *AVPlayState, d *Device, _ Args) {
				if s.State == AVPlayPaused {
					d.bridge.Continue()
				} else {
					d.bridge.Play(s.URL, 0)
				}
				s.State = AVPlayPlaying
			})),
		av.drive("pause", "_bridge.pause(); _state.avplay.state = 'PAUSED';", avplay(func(s *AVPlayState, d *Device, _ Args) {
			d.bridge.Pause()
			s.State = AVPlayPaused
		})),
		av.drive("stop", "_bridge.stop(); _state.avplay.state = 'IDLE';", avplay(func(s *AVPlayState, d *Device, _ Args) {
			d.bridge.Stop()
			s.State = AVPlayIdle
		})),
		av.drive("jumpForward", "_bridge.seek(_state.player.position + (Number(ms) || 0));", func(d *Device, a Args) (Value, error) {
			d.bridge.Seek(avplayPosition(d) + int64(a.Float(0)))
			return nil, nil
		}, "ms"),
		av.drive("jumpBackward", "_bridge.seek(Math.max(0, _state.player.position - (Number(ms) || 0)));", func(d *Device, a Args) (Value, error) {
			d.bridge.Seek(max(0, avplayPosition(d)-int64(a.Float(0))))
			return nil, nil
		}, "ms"),
		av.drive("seekTo", "_bridge.seek(ms);", seekMillis, "ms"),
		av.get("getState", "return _state.avplay.state;", func(d *Device, _ Args) (Value, error) {
			if d.state.AVPlay == nil {
				return AVPlayNone, nil
			}
			return d.state.AVPlay.State, nil
		}),
		av.read("getCurrentTime", "return _state.player.position;", playerField(func(p mediabridge.PlayerState) Value { return p.Position })),
		av.read("getDuration", "return _state.player.duration;", playerField(func(p mediabridge.PlayerState) Value { return p.Duration })),
		av.drive("setVolume", "_bridge.setVolume(vol);", setVolume, "vol"),
		av.read("getVolume", "return _state.player.volume;", getVolume),
		av.drive("setMute", "_bridge.setMute(_bool(mute));", setMute, "mute"),
		av.read("getMute", "return _state.player.muted;", getMute),
		av.drive("setSpeed", "_bridge.setSpeed(speed);", setSpeed, "speed"),
		av.noop("setDisplayRect", "x", "y", "width", "height"),
		av.noop("setDisplayMethod", "method"),
		av.noop("setDisplayRotation", "rotation"),
		av.noop("setStreamingProperty", "prop", "val"),
		av.constant("getStreamingProperty", "", "prop"),
		av.noop("setSoundAnalysisListener", "cb"),
		av.local("setListener", "_avplayListeners = listeners || {};", "listeners"),
		av.constant("getTotalTrackInfo", []any{}),
		av.constant("getCurrentTrackInfo", nil),
		av.noop("setSelectTrack", "type", "index"),

		channel.constant("getCurrentChannel", map[string]any{"channelName": "", "channelNumber": 0, "programTitle": ""}),
		channel.local("tune", notSupported, "channelInfo", "successCb", "errorCb"),
		display.constant("getDisplayResolution", "1920x1080"),
		display.constant("getSupportedResolutions", []string{"1920x1080", "1280x720"}),
		input.constant("getSupportedKeys", []any{}),
		input.noop("registerKey", "name"),
		input.noop("unregisterKey", "name"),

		network.constant("getActiveConnectionType", 1),
		network.get("getIp", "return _state.network.ip;", func(d *Device, _ Args) (Value, error) { return d.state.Network.IP, nil }),
		network.get("getMac", "return _state.network.mac;", func(d *Device, _ Args) (Value, error) { return d.state.Network.MAC, nil }),
		network.get("getGateway", "return _state.network.gateway;", func(d *Device, _ Args) (Value, error) { return d.state.Network.Gateway, nil }),
		network.get("getDns", "return _state.network.dns;", func(d *Device, _ Args) (Value, error) { return d.state.Network.DNS, nil }),
		network.constant("isConnectedToGateway", true),

		product.get("getModel", "return _state.identity.model;", identity(func(i Identity) string { return i.Model })),
		product.get("getRealModel", "return _state.identity.model;", identity(func(i Identity) string { return i.Model })),
		product.get("getFirmwareVersion", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
		product.get("getDuid", "return _state.identity.duid;", identity(func(i Identity) string { return i.DUID })),
		product.get("getSmartTVServerVersion", "return _state.identity.tizenVersion;", identity(func(i Identity) string { return i.TizenVersion })),
		product.constant("isUdPanelSupported", false),
		product.constant("getLocalSet", "EUR"),
		product.constant("getSystemConfig", "", "key"),

		appcommon.noop("setScreenSaver", "timeout"),
		billing.constant("isServiceAvailable", false),

		application.local("getCurrentApplication", "return { appInfo: { id: 'yasem.portal' }, exit: function () { window.history.back(); }, hide: function () {}, getRequestedAppControl: function () { return null; } };"),
		application.local("launchAppControl", notSupported, "appControl", "id", "successCb", "errorCb"),
		systeminfo.get("getPropertyValue",
			"var v = null; if (prop === 'DISPLAY') { v = { resolutionWidth: 1920, resolutionHeight: 1080 }; } else if (prop === 'NETWORK') { v = { networkType: 'ETHERNET' }; } if (v && typeof successCb === 'function') { successCb(v); } else if (!v) { "+notSupported+" }",
			func(_ *Device, a Args) (Value, error) { return systemProperty(a.String(0)), nil },
			"prop", "successCb", "errorCb"),
		filesystem.local("resolve", notSupported, "location", "successCb", "errorCb"),

		widget.noop("sendReadyEvent"),
	}
}

func systemProperty(prop string) Value {
	switch prop {
	case "DISPLAY":
		return map[string]any{"resolutionWidth": 1920, "resolutionHeight": 1080}
	case "NETWORK":
		return map[string]any{"networkType": "ETHERNET"}
	default:
		return nil
	}
}
