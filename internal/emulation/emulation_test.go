package emulation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/yasem/internal/mediabridge"
)

// pageStub is a minimal browser environment: a window with a parent frame,
// a document holding the shared player element, and timers that only run
// when a test calls __tick.
const pageStub = `
var window = this;
var __events = [];
var __posted = [];
var __listeners = {};
var __player = {
  src: '', paused: true, ended: false, currentTime: 0, duration: NaN,
  volume: 1, muted: false, loop: false, playbackRate: 1,
  videoWidth: 1280, videoHeight: 720, buffered: { length: 0 }, loads: 0,
  load: function () { this.loads++; },
  play: function () { this.paused = false; return { catch: function () {} }; },
  pause: function () { this.paused = true; }
};
var document = {
  cookie: '',
  getElementById: function (id) { return id === 'yasem-player' ? __player : null; }
};
window.document = document;
window.parent = {
  postMessage: function (msg) { __posted.push(msg); },
  document: { getElementById: function () { return null; } }
};
window.history = { back: function () { window.__wentBack = true; } };
window.location = { href: '' };
window.addEventListener = function (type, fn) {
  (__listeners[type] = __listeners[type] || []).push(fn);
};
window.dispatchEvent = function (ev) {
  __events.push(ev.type);
  (__listeners[ev.type] || []).forEach(function (fn) { fn(ev); });
  return true;
};
function CustomEvent(type, init) { this.type = type; this.detail = init && init.detail; }
function setInterval(fn) { window.__tick = fn; return 1; }
function clearInterval() {}
`

func newPage(t *testing.T, script string) *goja.Runtime {
	t.Helper()
	vm := goja.New()
	require.NoError(t, vm.Set("btoa", func(s string) string {
		b := make([]byte, 0, len(s))
		for _, r := range s {
			b = append(b, byte(r))
		}
		return base64.StdEncoding.EncodeToString(b)
	}))
	_, err := vm.RunString(pageStub)
	require.NoError(t, err)
	_, err = vm.RunString(script)
	require.NoError(t, err)
	return vm
}

func eval(t *testing.T, vm *goja.Runtime, js string) any {
	t.Helper()
	v, err := vm.RunString(js)
	require.NoError(t, err, js)
	return v.Export()
}

func buildScript(t *testing.T, classID string, config map[string]string) string {
	t.Helper()
	f, err := FamilyFor(classID)
	require.NoError(t, err)
	script, err := f.BuildScript(f.DefaultState(config), config)
	require.NoError(t, err)
	return script
}

type eventLog struct {
	mu     sync.Mutex
	events []mediabridge.Event
}

func (l *eventLog) Emit(ev mediabridge.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.events))
	for _, ev := range l.events {
		names = append(names, ev.Name)
	}
	return names
}

func newTestDevice(t *testing.T, profile DeviceProfile) (*Device, *eventLog) {
	t.Helper()
	log := &eventLog{}
	emitter := mediabridge.NewEmitter(log, nil, nil, nil)
	d, err := NewDevice(profile, mediabridge.NewBridge(emitter, nil), emitter, nil)
	require.NoError(t, err)
	return d, log
}

func TestFamilyFor(t *testing.T) {
	for _, id := range []string{"mag", "dunehd", "samsung"} {
		f, err := FamilyFor(id)
		require.NoError(t, err)
		assert.Equal(t, id, f.ClassID())
		assert.NotEmpty(t, f.Submodels())
		assert.Positive(t, f.Catalog().Len())
	}

	_, err := FamilyFor("amiga")
	assert.ErrorIs(t, err, ErrUnknownFamily)

	var ids []string
	for _, f := range Families() {
		ids = append(ids, f.ClassID())
	}
	assert.Equal(t, []string{"dunehd", "mag", "samsung"}, ids)
}

func TestDefaultState_IdentityPrecedence(t *testing.T) {
	mag, err := FamilyFor("mag")
	require.NoError(t, err)

	s := mag.DefaultState(nil)
	assert.Equal(t, "MAG250", s.Identity.Model)
	assert.Equal(t, "00:1A:79:00:00:01", s.Identity.MAC)
	assert.Equal(t, "DEADBEEF00001", s.Identity.Serial)
	assert.Equal(t, "Infomir", s.Identity.Vendor)
	assert.Equal(t, "auto", s.Player.AspectRatio)

	s = mag.DefaultState(map[string]string{
		ConfigKeyMagMAC:      "AA:BB:CC:DD:EE:FF",
		ConfigKeyMagSerial:   "SN42",
		ConfigKeySubmodel:    "MAG254",
		ConfigKeyAspectRatio: "16:9",
	})
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", s.Identity.MAC)
	assert.Equal(t, "SN42", s.Identity.Serial)
	assert.Equal(t, "MAG254", s.Identity.Model)
	assert.Equal(t, "16:9", s.Player.AspectRatio)

	s = mag.DefaultState(map[string]string{ConfigKeySubmodel: "MAG254", ConfigKeyMagSubmodel: "MAG275"})
	assert.Equal(t, "MAG275", s.Identity.Model)

	dune, err := FamilyFor("dunehd")
	require.NoError(t, err)
	s = dune.DefaultState(map[string]string{ConfigKeySubmodel: "Dune HD Connect"})
	assert.Equal(t, "Dune HD Connect", s.Identity.Model)
	assert.Equal(t, "Dune_HD_Connect", s.Identity.ProductID)
	assert.Equal(t, "00:22:33:44:55:66", s.Identity.MAC)
	assert.Equal(t, "130516_2058_r5", s.Identity.Firmware)

	samsung, err := FamilyFor("samsung")
	require.NoError(t, err)
	s = samsung.DefaultState(map[string]string{ConfigKeyTizenVersion: "4.0"})
	assert.Equal(t, "Samsung SmartTV 2015", s.Identity.Model)
	assert.Equal(t, "4.0", s.Identity.TizenVersion)
	assert.Equal(t, "192.168.1.100", s.Network.IP)
	require.NotNil(t, s.AVPlay)
	assert.Equal(t, AVPlayNone, s.AVPlay.State)

	s = mag.DefaultState(map[string]string{ConfigKeyAspectRatio: "7:3"})
	assert.Equal(t, "auto", s.Player.AspectRatio)
}

func TestTranslateURL(t *testing.T) {
	on := map[string]string{
		ConfigKeyUseMulticastProxy: "true",
		ConfigKeyMulticastProxyURL: "http://192.168.1.1:4022/udp/",
	}
	off := map[string]string{ConfigKeyMulticastProxyURL: "http://192.168.1.1:4022/udp/"}

	tests := []struct {
		name   string
		config map[string]string
		in     string
		want   string
	}{
		{"udp rewritten", on, "udp://239.1.1.1:1234", "http://192.168.1.1:4022/udp/239.1.1.1:1234"},
		{"rtp rewritten", on, "rtp://239.1.1.2:5000", "http://192.168.1.1:4022/udp/239.1.1.2:5000"},
		{"http untouched", on, "http://cdn.example.test/live.m3u8", "http://cdn.example.test/live.m3u8"},
		{"disabled", off, "udp://239.1.1.1:1234", "udp://239.1.1.1:1234"},
		{"nil config", nil, "udp://239.1.1.1:1234", "udp://239.1.1.1:1234"},
		{"empty url", on, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateURL(tt.config, tt.in))
		})
	}
}

func TestDeviceUID(t *testing.T) {
	mac := "00:1A:79:00:00:01"
	assert.Equal(t, "001A79000001", DeviceUID(mac, "", ""))
	assert.Equal(t, "001A79000001", DeviceUID(mac, "", "ignored"))

	full := base64.StdEncoding.EncodeToString([]byte("001A79000001seed-one-long"))
	require.Greater(t, len(full), 32)
	assert.Equal(t, full[:32], DeviceUID(mac, "seed-one", "-long"))

	short := base64.StdEncoding.EncodeToString([]byte("001A79000001x"))
	assert.Equal(t, short, DeviceUID(mac, "x", ""))
}

func TestHashVersion1(t *testing.T) {
	assert.Equal(t, "YWI=", HashVersion1("a", "b"))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("clé")), HashVersion1("cl", "é"))
}

func TestCheckFamilies(t *testing.T) {
	require.NoError(t, CheckFamilies())
}

func TestCompileCheck_RejectsBrokenScript(t *testing.T) {
	assert.Error(t, CompileCheck("(function () { var = ; })();"))
}

func TestScript_ExposesEveryCatalogOperation(t *testing.T) {
	for _, f := range Families() {
		t.Run(f.ClassID(), func(t *testing.T) {
			vm := newPage(t, buildScript(t, f.ClassID(), nil))
			for _, op := range f.Catalog().Ops() {
				got := eval(t, vm, "typeof window."+op.Qualified())
				assert.Equal(t, "function", got, op.Qualified())
			}
		})
	}
}

func TestScript_ConstantsMatchInvoke(t *testing.T) {
	for _, f := range Families() {
		t.Run(f.ClassID(), func(t *testing.T) {
			vm := newPage(t, buildScript(t, f.ClassID(), nil))
			d, _ := newTestDevice(t, DeviceProfile{ClassID: f.ClassID()})
			for _, op := range f.Catalog().Ops() {
				if op.Kind != KindConst || op.Fn != nil {
					continue
				}
				js := eval(t, vm, "JSON.stringify(window."+op.Qualified()+"())")
				v, err := d.Invoke(op.Qualified())
				require.NoError(t, err)
				want, err := json.Marshal(v)
				require.NoError(t, err)
				assert.JSONEq(t, string(want), js.(string), op.Qualified())
			}
		})
	}
}

func TestScript_EscapesConfigValues(t *testing.T) {
	script := buildScript(t, "mag", map[string]string{ConfigKeyMagSerial: "</script><script>alert(1)</script>"})
	assert.NotContains(t, script, "</script>")
	require.NoError(t, CompileCheck(script))

	vm := newPage(t, script)
	assert.Equal(t, "</script><script>alert(1)</script>", eval(t, vm, "gSTB.GetDeviceSerialNumber()"))
}

func TestScript_MagPlayback(t *testing.T) {
	vm := newPage(t, buildScript(t, "mag", map[string]string{
		ConfigKeyUseMulticastProxy: "true",
		ConfigKeyMulticastProxyURL: "http://192.168.1.1:4022/udp/",
	}))

	eval(t, vm, "gSTB.Pause()")
	assert.Empty(t, eval(t, vm, "__events"))

	eval(t, vm, "gSTB.Play('udp://239.1.1.1:1234')")
	assert.Equal(t, "http://192.168.1.1:4022/udp/239.1.1.1:1234", eval(t, vm, "__player.src"))
	assert.Equal(t, true, eval(t, vm, "gSTB.IsPlaying()"))
	assert.EqualValues(t, int64(1), eval(t, vm, "__player.loads"))

	eval(t, vm, "gSTB.Pause()")
	assert.Equal(t, true, eval(t, vm, "__player.paused"))

	eval(t, vm, "gSTB.Stop()")
	assert.Equal(t, "", eval(t, vm, "__player.src"))
	assert.Equal(t, false, eval(t, vm, "gSTB.IsPlaying()"))

	assert.Equal(t, []any{"yasem:mediaStarted", "yasem:mediaPaused", "yasem:mediaStopped"}, eval(t, vm, "__events"))

	invoked := eval(t, vm, "__posted.filter(function (m) { return m.type === 'yasem:invoke'; }).map(function (m) { return m.payload.name; })")
	assert.Equal(t, []any{"gSTB.Pause", "gSTB.Play", "gSTB.Pause", "gSTB.Stop"}, invoked)

	relayed := eval(t, vm, "__posted.filter(function (m) { return m.type === 'yasem:mediaStarted'; })[0].payload.url")
	assert.Equal(t, "http://192.168.1.1:4022/udp/239.1.1.1:1234", relayed)
}

func TestScript_MagBufferLoadUsesFirstRange(t *testing.T) {
	vm := newPage(t, buildScript(t, "mag", nil))

	eval(t, vm, "gSTB.Play('http://cdn.example.test/vod.mp4')")
	eval(t, vm, `
__player.duration = 100;
__player.currentTime = 5;
__player.buffered = { length: 2, end: function (i) { return [10, 50][i]; } };
window.__tick();
`)

	assert.EqualValues(t, 10, eval(t, vm, "gSTB.GetBufferLoad()"))
	assert.EqualValues(t, 5, eval(t, vm, "gSTB.GetPosTime()"))
}

func TestScript_MagSettersAndIdentity(t *testing.T) {
	mac := "AA:BB:CC:DD:EE:FF"
	vm := newPage(t, buildScript(t, "mag", map[string]string{ConfigKeyMagMAC: mac}))

	eval(t, vm, "gSTB.SetVolume(150)")
	assert.EqualValues(t, int64(100), eval(t, vm, "gSTB.GetVolume()"))
	assert.EqualValues(t, 1, eval(t, vm, "__player.volume"))

	eval(t, vm, "gSTB.SetMute(1)")
	assert.Equal(t, true, eval(t, vm, "gSTB.GetMute()"))

	assert.Equal(t, true, eval(t, vm, "gSTB.SetEnv('lang', 'en')"))
	assert.Equal(t, "en", eval(t, vm, "gSTB.GetEnv('lang')"))
	assert.Equal(t, "", eval(t, vm, "gSTB.GetEnv('missing')"))

	eval(t, vm, "gSTB.SetTopWin(1)")
	assert.EqualValues(t, int64(1), eval(t, vm, "gSTB.GetTopWin()"))

	assert.Equal(t, mac, eval(t, vm, "gSTB.GetDeviceMacAddress()"))
	assert.Equal(t, DeviceUID(mac, "", ""), eval(t, vm, "gSTB.GetUID()"))
	assert.Equal(t, DeviceUID(mac, "portal", "key"), eval(t, vm, "gSTB.GetUID('portal', 'key')"))
	assert.Equal(t, HashVersion1("secret", "key"), eval(t, vm, "gSTB.GetHashVersion1('secret', 'key')"))
	assert.Equal(t, "2.18.18-r11-pub-250", eval(t, vm, "gSTB.Version()"))
	assert.EqualValues(t, int64(0), eval(t, vm, "gSTB.GetPosPercent()"))
}

func TestScript_PlayerStateBroadcast(t *testing.T) {
	vm := newPage(t, buildScript(t, "mag", nil))

	eval(t, vm, "__listeners.message[0]({ data: { type: 'yasem:playerState', payload: { state: 'paused', volume: 40, muted: true, position: 999 } } })")
	assert.EqualValues(t, int64(40), eval(t, vm, "gSTB.GetVolume()"))
	assert.Equal(t, true, eval(t, vm, "gSTB.GetMute()"))
	assert.EqualValues(t, int64(0), eval(t, vm, "gSTB.GetPosTime()"))
}

func TestScript_DuneAndSamsung(t *testing.T) {
	dune := newPage(t, buildScript(t, "dunehd", nil))
	eval(t, dune, "DuneAPI.launchMediaURL('http://media.example.test/a.ts', 5)")
	assert.Equal(t, "http://media.example.test/a.ts", eval(t, dune, "__player.src"))
	assert.EqualValues(t, int64(5), eval(t, dune, "__player.currentTime"))
	assert.Equal(t, "Dune_HD_TV-102", eval(t, dune, "DuneAPI.getProductId()"))
	assert.Equal(t, "Dune HD TV-102", eval(t, dune, "Dune.system.getModel()"))
	eval(t, dune, "Dune.media.stop()")
	assert.Equal(t, false, eval(t, dune, "Dune.media.isPlaying()"))

	tv := newPage(t, buildScript(t, "samsung", nil))
	eval(t, tv, "webapis.avplay.open('http://media.example.test/b.mp4')")
	assert.Equal(t, "IDLE", eval(t, tv, "webapis.avplay.getState()"))
	eval(t, tv, "webapis.avplay.prepare()")
	assert.Equal(t, "READY", eval(t, tv, "webapis.avplay.getState()"))
	eval(t, tv, "webapis.avplay.play()")
	assert.Equal(t, "PLAYING", eval(t, tv, "webapis.avplay.getState()"))
	eval(t, tv, "webapis.avplay.pause()")
	assert.Equal(t, "PAUSED", eval(t, tv, "webapis.avplay.getState()"))
	eval(t, tv, "webapis.avplay.setVolume(30)")
	assert.EqualValues(t, int64(30), eval(t, tv, "webapis.avplay.getVolume()"))

	eval(t, tv, "var __err = null; tizen.filesystem.resolve('documents', null, function (e) { __err = e.name; })")
	assert.Equal(t, "NotSupportedError", eval(t, tv, "__err"))
	eval(t, tv, "var __prop = null; tizen.systeminfo.getPropertyValue('DISPLAY', function (v) { __prop = v.resolutionWidth; })")
	assert.EqualValues(t, int64(1920), eval(t, tv, "__prop"))
	assert.Equal(t, "2.3", eval(t, tv, "webapis.productinfo.getSmartTVServerVersion()"))
}

func TestDevice_InvokeStateMachine(t *testing.T) {
	d, log := newTestDevice(t, DeviceProfile{ClassID: "mag"})

	_, err := d.Invoke("Pause")
	require.NoError(t, err)
	assert.Empty(t, log.names())
	assert.Equal(t, mediabridge.StatusStopped, d.State().Player.Status)

	_, err = d.Invoke("gSTB.Play", "http://media.example.test/live.ts", "")
	require.NoError(t, err)
	assert.Equal(t, mediabridge.StatusPlaying, d.State().Player.Status)
	assert.Equal(t, "http://media.example.test/live.ts", d.State().Player.URL)

	playing, err := d.Invoke("IsPlaying")
	require.NoError(t, err)
	assert.Equal(t, true, playing)

	_, err = d.Invoke("Pause")
	require.NoError(t, err)
	assert.Equal(t, mediabridge.StatusPaused, d.State().Player.Status)

	_, err = d.Invoke("Continue")
	require.NoError(t, err)
	assert.Equal(t, mediabridge.StatusPlaying, d.State().Player.Status)

	_, err = d.Invoke("Stop")
	require.NoError(t, err)
	assert.Equal(t, mediabridge.StatusStopped, d.State().Player.Status)
	assert.Empty(t, d.State().Player.URL)

	assert.Equal(t, []string{
		mediabridge.EventMediaStarted,
		mediabridge.EventMediaPaused,
		mediabridge.EventMediaPlaying,
		mediabridge.EventMediaStopped,
	}, log.names())
}

func TestDevice_InvokeStubsAndState(t *testing.T) {
	d, log := newTestDevice(t, DeviceProfile{
		ClassID:  "mag",
		Submodel: "MAG256",
		Config:   map[string]string{ConfigKeyMagMAC: "AA:BB:CC:DD:EE:FF"},
	})

	v, err := d.Invoke("EnableVKButton", true)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = d.Invoke("GetAudioPIDs")
	require.NoError(t, err)
	assert.Equal(t, "0 0", v)

	v, err = d.Invoke("GetDeviceModel")
	require.NoError(t, err)
	assert.Equal(t, "MAG256", v)

	v, err = d.Invoke("GetUID", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, DeviceUID("AA:BB:CC:DD:EE:FF", "a", "b"), v)

	v, err = d.Invoke("SetEnv", "portal", "http://portal.example.test/")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = d.Invoke("GetEnv", "portal")
	require.NoError(t, err)
	assert.Equal(t, "http://portal.example.test/", v)

	_, err = d.Invoke("SetVolume", float64(250))
	require.NoError(t, err)
	v, err = d.Invoke("GetVolume")
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	_, err = d.Invoke("SetBrightness", "70")
	require.NoError(t, err)
	assert.Equal(t, 70, d.State().Player.Brightness)

	_, err = d.Invoke("SetTopWin", float64(1))
	require.NoError(t, err)
	assert.Equal(t, 1, d.State().TopWindow)
	assert.Contains(t, log.names(), EventTopWindowChanged)

	_, err = d.Invoke("NoSuchMethod")
	assert.True(t, errors.Is(err, ErrUnknownOperation))

	_, err = d.Invoke("webapis.avplay.open", "x")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestDevice_MulticastPlay(t *testing.T) {
	d, _ := newTestDevice(t, DeviceProfile{ClassID: "mag", Config: map[string]string{
		ConfigKeyUseMulticastProxy: "true",
		ConfigKeyMulticastProxyURL: "http://192.168.1.1:4022/udp/",
	}})

	_, err := d.Invoke("Play", "udp://239.1.1.1:1234")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.1:4022/udp/239.1.1.1:1234", d.State().Player.URL)
}

func TestDevice_SamsungAVPlay(t *testing.T) {
	d, log := newTestDevice(t, DeviceProfile{ClassID: "samsung"})

	steps := []struct {
		call string
		args []Value
		want string
	}{
		{"open", []Value{"http://media.example.test/b.mp4"}, AVPlayIdle},
		{"prepare", nil, AVPlayReady},
		{"play", nil, AVPlayPlaying},
		{"pause", nil, AVPlayPaused},
		{"play", nil, AVPlayPlaying},
		{"stop", nil, AVPlayIdle},
		{"close", nil, AVPlayNone},
	}
	for _, s := range steps {
		_, err := d.Invoke(s.call, s.args...)
		require.NoError(t, err, s.call)
		state, err := d.Invoke("getState")
		require.NoError(t, err)
		assert.Equal(t, s.want, state, s.call)
	}

	assert.Equal(t, []string{
		mediabridge.EventMediaStarted,
		mediabridge.EventMediaPaused,
		mediabridge.EventMediaPlaying,
		mediabridge.EventMediaStopped,
		mediabridge.EventMediaStopped,
	}, log.names())

	v, err := d.Invoke("tizen.systeminfo.getPropertyValue", "NETWORK")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"networkType": "ETHERNET"}, v)
}

func TestDevice_ScriptReflectsState(t *testing.T) {
	d, _ := newTestDevice(t, DeviceProfile{ClassID: "mag"})
	_, err := d.Invoke("SetEnv", "k", "v")
	require.NoError(t, err)

	script, err := d.Script()
	require.NoError(t, err)
	assert.True(t, strings.Contains(script, `"env":{"k":"v"}`))
}

func TestNewDevice_UnknownFamily(t *testing.T) {
	_, err := NewDevice(DeviceProfile{ClassID: "amiga"}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestArgs(t *testing.T) {
	a := Args{"12", float64(3.7), true, nil, "true", float64(0), map[string]any{"a": 1}}

	assert.Equal(t, 12, a.Int(0))
	assert.Equal(t, 3, a.Int(1))
	assert.Equal(t, "3.7", a.String(1))
	assert.Equal(t, "true", a.String(2))
	assert.Equal(t, "", a.String(3))
	assert.Equal(t, `{"a":1}`, a.String(6))
	assert.True(t, a.Bool(2))
	assert.True(t, a.Bool(4))
	assert.False(t, a.Bool(5))
	assert.True(t, a.Bool(1))
	assert.False(t, a.Bool(3))
	assert.Equal(t, "", a.String(99))
	assert.Equal(t, 0.0, a.Float(99))
}

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog("test", "obj", []Op{
		{Object: "obj", Name: "A", Kind: KindConst, Value: 1},
		{Object: "other", Name: "B", Kind: KindNoop},
		{Object: "obj", Name: "A", Kind: KindConst, Value: 2},
	})

	assert.Equal(t, 2, c.Len())
	op, ok := c.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 2, op.Value)
	_, ok = c.Lookup("other.B")
	assert.True(t, ok)
	_, ok = c.Lookup("B")
	assert.False(t, ok)
	assert.Equal(t, []string{"obj", "other"}, c.Objects())
	assert.Equal(t, "return 2;", op.JSBody())
	assert.Equal(t, "const", op.Kind.String())
}
