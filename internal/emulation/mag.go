package emulation

import "github.com/jmylchreest/yasem/internal/mediabridge"

// mag config keys.
const (
	ConfigKeyMagSubmodel = "mag/submodel"
	ConfigKeyMagMAC      = "mag/mac_address"
	ConfigKeyMagSerial   = "mag/serial_number"
)

const (
	magDefaultModel    = "MAG250"
	magDefaultMAC      = "00:1A:79:00:00:01"
	magDefaultSerial   = "DEADBEEF00001"
	magVendor          = "Infomir"
	magFirmware        = "2.18.18-r11-pub-250"
	magHardwareVersion = "2.0"
)

var magSubmodels = []string{"MAG250", "MAG255", "MAG256", "MAG275", "AuraHD"}

func init() {
	register(&family{
		classID:   "mag",
		name:      "Infomir MAG",
		template:  "mag",
		submodels: magSubmodels,
		catalog:   NewCatalog("mag", "gSTB", magOps()),
		resolve:   resolveMag,
	})
}

func resolveMag(s *State, config map[string]string) {
	s.Identity = Identity{
		Model:    configValue(config, magDefaultModel, ConfigKeyMagSubmodel, ConfigKeySubmodel),
		Serial:   configValue(config, magDefaultSerial, ConfigKeyMagSerial),
		MAC:      configValue(config, magDefaultMAC, ConfigKeyMagMAC),
		Vendor:   magVendor,
		Firmware: magFirmware,
	}
	s.Network.MAC = s.Identity.MAC
}

func setTopWin(d *Device, a Args) (Value, error) {
	d.state.TopWindow = a.Int(0)
	d.emit(EventTopWindowChanged, map[string]any{"winNum": d.state.TopWindow})
	return nil, nil
}

func emitArgs(event string, names ...string) OpFunc {
	return func(d *Device, a Args) (Value, error) {
		payload := make(map[string]any, len(names))
		for i, n := range names {
			payload[n] = a.at(i)
		}
		d.emit(event, payload)
		return nil, nil
	}
}

func magOps() []Op {
	g := object("gSTB")
	pm := object("netscape.security.PrivilegeManager")

	return []Op{
		// Player lifecycle.
		g.drive("Play", "_bridge.play(playStr);", playURL(0), "playStr", "proxyParams"),
		g.drive("PlaySolution", "_bridge.play(url);", playURL(1), "solution", "url"),
		g.drive("Pause", "_bridge.pause();", pausePlayer),
		g.drive("Continue", "_bridge.resume();", continuePlayer),
		g.drive("Stop", "_bridge.stop();", stopPlayer),
		g.drive("InitPlayer", "_startTelemetry();", bridgeCall(func(b *mediabridge.Bridge, _ Args) { b.StartTelemetry() })),
		g.drive("DeinitPlayer", "_bridge.deinit();", bridgeCall(func(b *mediabridge.Bridge, _ Args) { b.Deinit() })),
		g.read("IsPlaying", "return _bridge.isPlaying();", isPlaying),

		// Position.
		g.read("GetPosTime", "return _bridge.positionSec();", positionSec),
		g.read("GetPosTimeEx", "return _bridge.positionSec();", positionSec),
		g.drive("SetPosTime", "_bridge.seek(time * 1000);", seekSeconds, "time"),
		g.drive("SetPosTimeEx", "_bridge.seek(time * 1000);", seekSeconds, "time"),
		g.read("GetPosPercent", "return _bridge.percent();", playerField(func(p mediabridge.PlayerState) Value { return percent(p) })),
		g.read("GetPosPercentEx", "return _bridge.percent();", playerField(func(p mediabridge.PlayerState) Value { return percent(p) })),
		g.drive("SetPosPercent", "_bridge.seekPercent(prc);", bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SeekPercent(a.Float(0)) }), "prc"),
		g.drive("SetPosPercentEx", "_bridge.seekPercent(prc);", bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SeekPercent(a.Float(0)) }), "prc"),
		g.read("GetMediaLen", "return _bridge.durationSec();", durationSec),
		g.read("GetMediaLenEx", "return _bridge.durationSec();", durationSec),
		g.read("GetBufferLoad", "return Math.floor(_state.player.buffering);", playerField(func(p mediabridge.PlayerState) Value { return int(p.Buffering) })),

		// Audio and playback properties.
		g.drive("SetVolume", "_bridge.setVolume(volume);", setVolume, "volume"),
		g.read("GetVolume", "return _state.player.volume;", getVolume),
		g.drive("SetMute", "_bridge.setMute(_bool(mute));", setMute, "mute"),
		g.read("GetMute", "return _state.player.muted;", getMute),
		g.drive("SetLoop", "_bridge.setLoop(_bool(loop));", bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SetLoop(a.Bool(0)) }), "loop"),
		g.drive("SetSpeed", "_bridge.setSpeed(speed);", setSpeed, "speed"),
		g.read("GetSpeed", "return _state.player.speed;", playerField(func(p mediabridge.PlayerState) Value { return p.Speed })),
		g.drive("SetAudioPID", "_bridge.setAudioTrack(Number(pid) || 0);", bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SetAudioTrack(a.Int(0)) }), "pid"),
		g.read("GetAudioPID", "return _state.player.audioTrack;", playerField(func(p mediabridge.PlayerState) Value { return p.AudioTrack })),
		g.constant("GetAudioPIDs", "0 0"),
		g.jsonString("GetAudioPIDsEx", []map[string]any{{"pid": 0, "type": "mp2", "lang": "und"}}),
		g.read("GetVideoInfo", "return JSON.stringify(_bridge.videoInfo());", func(d *Device, _ Args) (Value, error) {
			w, h := d.bridge.VideoSize()
			return mustJSON(map[string]any{"width": w, "height": h, "aspect": "16:9"}), nil
		}),

		// Picture controls.
		g.set("SetBrightness", "_state.player.brightness = Number(bri) || 0;", bridgeUpdate(func(p *mediabridge.PlayerState, a Args) { p.Brightness = a.Int(0) }), "bri"),
		g.get("GetBrightness", "return _state.player.brightness;", playerField(func(p mediabridge.PlayerState) Value { return p.Brightness })),
		g.set("SetContrast", "_state.player.contrast = Number(con) || 0;", bridgeUpdate(func(p *mediabridge.PlayerState, a Args) { p.Contrast = a.Int(0) }), "con"),
		g.get("GetContrast", "return _state.player.contrast;", playerField(func(p mediabridge.PlayerState) Value { return p.Contrast })),
		g.set("SetSaturation", "_state.player.saturation = Number(sat) || 0;", bridgeUpdate(func(p *mediabridge.PlayerState, a Args) { p.Saturation = a.Int(0) }), "sat"),
		g.get("GetSaturation", "return _state.player.saturation;", playerField(func(p mediabridge.PlayerState) Value { return p.Saturation })),
		g.noop("SetAspect", "aspect"),
		g.constant("GetAspect", 0),

		// Windows and layers.
		g.set("SetTopWin", "_state.topWindow = Number(winNum) || 0; _triggerEvent('topWindowChanged', { winNum: _state.topWindow });", setTopWin, "winNum"),
		g.get("GetTopWin", "return _state.topWindow;", func(d *Device, _ Args) (Value, error) { return d.state.TopWindow, nil }),
		g.set("SetAlphaLevel", "_state.alphaLevel = Number(alpha) || 0;", func(d *Device, a Args) (Value, error) {
			d.state.AlphaLevel = a.Int(0)
			return nil, nil
		}, "alpha"),
		g.get("GetAlphaLevel", "return _state.alphaLevel;", func(d *Device, _ Args) (Value, error) { return d.state.AlphaLevel, nil }),
		g.set("SetWinAlphaLevel", "_state.alphaLevel = Number(alpha) || 0;", func(d *Device, a Args) (Value, error) {
			d.state.AlphaLevel = a.Int(1)
			return nil, nil
		}, "winNum", "alpha"),
		g.get("GetWinAlphaLevel", "return _state.alphaLevel;", func(d *Device, _ Args) (Value, error) { return d.state.AlphaLevel, nil }, "winNum"),
		g.set("SetTransparentColor", "_state.chromaKey = Number(color) || 0;", func(d *Device, a Args) (Value, error) {
			d.state.ChromaKey = a.Int(0)
			return nil, nil
		}, "color"),
		g.get("GetTransparentColor", "return _state.chromaKey;", func(d *Device, _ Args) (Value, error) { return d.state.ChromaKey, nil }),
		g.noop("SetChromaKey", "key", "mask"),
		g.set("SetViewport", "_triggerEvent('viewportChanged', { xsize: xsize, ysize: ysize, x: x, y: y });",
			emitArgs(EventViewportChanged, "xsize", "ysize", "x", "y"), "xsize", "ysize", "x", "y"),
		g.set("SetViewportEx", "_triggerEvent('viewportChanged', { xsize: xSize, ysize: ySize, x: xPos, y: yPos, clear: clearVideo });",
			emitArgs(EventViewportChanged, "xsize", "ysize", "x", "y", "clear"),
			"xSize", "ySize", "xPos", "yPos", "clearVideo", "xClip", "yClip", "wClip", "hClip"),
		g.noop("SetWinMode", "winNum", "mode"),
		g.noop("SetPIG", "state", "scale", "x", "y"),
		g.constant("GetPIG", false),
		g.set("SetWebMode", "_state.webMode = _bool(val);", func(d *Device, a Args) (Value, error) {
			d.state.WebMode = a.Bool(0)
			return nil, nil
		}, "val", "str"),

		// Subtitles.
		g.set("SetSubtitles", "_state.subtitlesEnabled = _bool(enable);", func(d *Device, a Args) (Value, error) {
			d.state.SubtitlesEnabled = a.Bool(0)
			return nil, nil
		}, "enable"),
		g.set("SetSubtitlePID", "_state.subtitlePid = Number(pid) || 0;", func(d *Device, a Args) (Value, error) {
			d.state.SubtitlePID = a.Int(0)
			return nil, nil
		}, "pid"),
		g.get("GetSubtitlePID", "return _state.subtitlePid;", func(d *Device, _ Args) (Value, error) { return d.state.SubtitlePID, nil }),
		g.constant("GetSubtitlePIDs", ""),
		g.set("ShowSubtitle", "_triggerEvent('showSubtitle', { start: start, end: end, text: text });",
			emitArgs(EventShowSubtitle, "start", "end", "text"), "start", "end", "text"),
		g.noop("SetSubtitleLangs", "priLang", "secLang"),
		g.noop("SetSubtitlesColor", "val"),
		g.noop("SetSubtitlesEncoding", "encoding"),
		g.noop("SetSubtitlesFont", "font"),
		g.noop("SetSubtitlesOffs", "offset"),
		g.noop("SetSubtitlesSize", "size"),
		g.noop("LoadExternalSubtitles", "url"),
		g.constant("GetTeletextPID", ""),
		g.constant("GetTeletextPIDs", ""),
		g.noop("SetTeletext", "val"),
		g.noop("SetTeletextPID", "val"),

		// Environment and portal state.
		g.set("SetEnv", "_state.env[data] = value === undefined ? '' : String(value); return true;", func(d *Device, a Args) (Value, error) {
			d.state.Env[a.String(0)] = a.String(1)
			return true, nil
		}, "data", "value"),
		g.get("GetEnv", "var v = _state.env[name]; return v === undefined ? '' : v;", func(d *Device, a Args) (Value, error) {
			return d.state.Env[a.String(0)], nil
		}, "name"),
		g.set("SetInternalPortalActive", "_state.internalPortalActive = _bool(active);", func(d *Device, a Args) (Value, error) {
			d.state.InternalPortalActive = a.Bool(0)
			return nil, nil
		}, "active"),
		g.get("IsInternalPortalActive", "return _state.internalPortalActive;", func(d *Device, _ Args) (Value, error) {
			return d.state.InternalPortalActive, nil
		}),
		g.set("SendEventToPortal", "_triggerEvent('portalEvent', { args: args });", emitArgs(EventPortalEvent, "args"), "args"),

		// Identity.
		g.get("GetDeviceMacAddress", "return _state.identity.mac;", identity(func(i Identity) string { return i.MAC })),
		g.get("GetDeviceModel", "return _state.identity.model;", identity(func(i Identity) string { return i.Model })),
		g.get("GetDeviceModelExt", "return _state.identity.model;", identity(func(i Identity) string { return i.Model })),
		g.get("GetDeviceSerialNumber", "return _state.identity.serial;", identity(func(i Identity) string { return i.Serial })),
		g.get("GetDeviceVendor", "return _state.identity.vendor;", identity(func(i Identity) string { return i.Vendor })),
		g.get("GetDeviceImageDesc", "return _state.identity.model + ' firmware';", identity(func(i Identity) string { return i.Model + " firmware" })),
		g.get("GetDeviceImageVersion", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
		g.get("GetDeviceImageVersionCurrent", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
		g.get("Version", "return _state.identity.firmware;", identity(func(i Identity) string { return i.Firmware })),
		g.constant("GetDeviceVersionHardware", magHardwareVersion),
		g.constant("GetDeviceActiveBank", "1"),
		g.get("GetUID", "return _uid(arg1, arg2);", func(d *Device, a Args) (Value, error) {
			return DeviceUID(d.state.Identity.MAC, a.String(0), a.String(1)), nil
		}, "arg1", "arg2"),
		g.get("GetHashVersion1", "return _b64(String(secret) + String(key));", func(_ *Device, a Args) (Value, error) {
			return HashVersion1(a.String(0), a.String(1)), nil
		}, "secret", "key"),

		// Network.
		g.constant("GetLanLinkStatus", true),
		g.constant("GetNetworkGateways", "192.168.1.1"),
		g.constant("GetNetworkNameServers", "8.8.8.8 8.8.4.4"),
		g.constant("GetNetworkWifiMac", "00:00:00:00:00:00"),
		g.constant("GetPppoeIp", ""),
		g.constant("GetPppoeLinkStatus", false),
		g.constant("GetWifiGroups", "[]"),
		g.constant("GetWifiLinkStatus", false),
		g.jsonString("GetWifiLinkStatusEx", map[string]any{"status": false}),
		g.constant("GetWepKey128ByPassPhrase", "", "passPhrase"),
		g.constant("GetWepKey64ByPassPhrase", "", "passPhrase"),
		g.constant("GetSmbGroups", "[]"),
		g.constant("GetSmbServers", "[]", "args"),
		g.constant("GetSmbShares", "[]", "args"),
		g.noop("SetWebProxy", "host", "port", "user", "password", "exclude"),
		g.noop("ResetWebProxy"),
		g.noop("ConfigNetRc", "deviceName", "password"),
		g.noop("SetNetRcStatus", "enable"),
		g.noop("SetupRTSP", "type", "flags"),
		g.constant("SetMulticastProxyURL", 0, "val"),
		g.noop("EnableMulticastProxy", "enable"),
		g.constant("GetExtProtocolList", ""),
		g.local("ExtProtocolCommand", "_log('ExtProtocolCommand', val1, val2, val3);", "val1", "val2", "val3"),

		// Storage and files.
		g.jsonString("GetStorageInfo", []map[string]any{{"name": "Internal", "free": 1073741824, "total": 8589934592}}, "args"),
		g.constant("IsFileExist", false, "fileName"),
		g.constant("IsFolderExist", false, "folderName"),
		g.constant("IsFileUTF8Encoded", true, "fileName"),
		g.constant("ListDir", "var dirs = []; var files = [];", "dir", "lastModified"),
		g.get("RDir", "return name;", func(_ *Device, a Args) (Value, error) { return a.String(0), nil }, "name"),
		g.constant("ReadCFG", ""),
		g.noop("WriteCFG", "cfg"),
		g.noop("WritePrefs", "prefs"),
		g.constant("LoadUserData", "", "str"),
		g.noop("SaveUserData", "fileName", "data"),
		g.noop("ResetUserFs"),
		g.noop("SetListFilesExt", "exts"),

		// Metadata and statistics.
		g.jsonString("GetMetadataInfo", map[string]any{
			"title": "", "author": "", "studio": "", "year": "", "genre": "",
			"poster_path": "", "cat": "", "description": "", "age": "0",
		}),
		g.constant("GetStatistics", "{}"),
		g.noop("ClearStatistics"),
		g.constant("GetHLSInfo", "{}"),
		g.constant("GetMicVolume", 0),
		g.noop("SetMicVolume", "volume"),
		g.constant("Get3DConversionMode", 0),
		g.noop("Set3DConversionMode", "mode"),
		g.constant("GetHDMIConnectionState", 1),
		g.constant("GetStandByStatus", false),
		g.noop("StandBy", "standBy"),
		g.jsonString("GetLedIndicatorState", map[string]any{"mode": 0}),
		g.noop("SetLedIndicatorMode", "mode"),
		g.noop("SetLedIndicatorLevels", "baseLevel", "blinkLevel"),

		// Virtual keyboard and input.
		g.noop("ShowVirtualKeyboard", "show"),
		g.noop("HideVirtualKeyboard"),
		g.noop("HideVirtualKeyboardEx"),
		g.constant("IsVirtualKeyboardActive", false),
		g.constant("IsVirtualKeyboardActiveEx", false),
		g.noop("SetInputLang", "lang"),
		g.constant("GetInputLang", "en"),
		g.noop("SetUiLang", "lang"),
		g.noop("EnableAppButton", "enable"),
		g.noop("EnableCustomNavigation", "enable"),
		g.noop("EnableJavaScriptInterrupt", "enable"),
		g.noop("EnableServiceButton", "enable"),
		g.noop("EnableSetCookieFrom", "domain", "enable"),
		g.noop("EnableSpatialNavigation", "enable"),
		g.noop("EnableVKButton", "enable"),
		g.noop("EnableTvButton", "enable"),

		// Browser and navigation.
		g.local("LoadURL", "if (str) { window.location.href = str; }", "str"),
		g.local("CloseWebWindow", "if (typeof window.close === 'function') { window.close(); }"),
		g.local("DeleteAllCookies", "var c = String(window.document.cookie || '').split(';'); for (var i = 0; i < c.length; i++) { var n = c[i].split('=')[0].trim(); if (n) { window.document.cookie = n + '=; expires=Thu, 01 Jan 1970 00:00:00 GMT; path=/'; } }"),
		g.local("Debug", "_log(str);", "str"),
		g.local("ExecAction", "_log('ExecAction', str);", "str"),
		g.local("ServiceControl", "_log('ServiceControl', name, action);", "name", "action"),
		g.noop("SetCustomHeader", "header"),
		g.noop("SetCheckSSLCertificate", "val"),
		g.noop("SetObjectCacheCapacities", "cacheMinDeadCapacity", "cacheMaxDead", "totalCapacity"),
		g.noop("SetPixmapCacheSize", "sizeKb"),
		g.noop("SetNativeStringMode", "nativeMode"),
		g.noop("SetScreenSaverTime", "time"),
		g.noop("SetSettingsInitAttr", "options"),
		g.noop("SetScreenSaverInitAttr", "options"),
		g.noop("IgnoreUpdates", "ignore"),
		g.constant("GetDefaultUpdateUrl", ""),
		g.noop("StartLocalCfg"),
		g.noop("SetSyslogLevel", "level"),

		// Video output and decoding.
		g.constant("SetMode", 0, "mode"),
		g.noop("SetAudioLangs", "priLang", "secLang"),
		g.noop("SetAudioOperationalMode", "mode"),
		g.noop("SetAutoFrameRate", "mode"),
		g.noop("SetBufferSize", "sizeInMs", "maxSizeInBytes"),
		g.noop("SetComponentMode", "mode"),
		g.noop("SetDefaultFlicker", "state"),
		g.noop("SetDRC", "high", "low"),
		g.noop("SetFlicker", "state", "flk", "shp"),
		g.noop("SetHDMIAudioOut", "type"),
		g.noop("ForceHDMItoDVI", "forceDVI"),
		g.noop("SetPCRModeEnabled", "enable"),
		g.noop("SetStereoMode", "mode"),
		g.noop("SetSyncCorrection", "val1", "val2"),
		g.noop("SetSyncOffsetCorrection", "val"),
		g.noop("SetupSPdif", "flags"),
		g.noop("SetUserFlickerControl", "mode"),
		g.noop("SetVideoControl", "mode"),
		g.noop("SetVideoState", "state"),
		g.noop("ShowVideoImmediately", "val"),
		g.noop("Rotate", "angle"),
		g.noop("Step"),

		// Conditional access.
		g.noop("LoadCASIniFile", "iniFileName"),
		g.noop("SetAdditionalCasParam", "name", "value"),
		g.noop("SetCASDescrambling", "isSoftware"),
		g.noop("SetCASParam", "serverAddr", "port", "companyName", "opID", "errorLevel"),
		g.noop("SetCASType", "type"),

		pm.noop("enablePrivilege", "privilege"),
	}
}

func mustJSON(v any) string {
	s, err := toJSON(v)
	if err != nil {
		return "{}"
	}
	return s
}

