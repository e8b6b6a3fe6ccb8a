package emulation

import (
	"encoding/json"
	"time"

	"github.com/jmylchreest/yasem/internal/mediabridge"
)

// object builds the operations of one legacy global.
type object string

func (o object) op(kind Kind, name, body string, fn OpFunc, mutates bool, params []string) Op {
	return Op{Object: string(o), Name: name, Params: params, Kind: kind, Body: body, Fn: fn, Mutates: mutates}
}

// noop accepts and ignores the call.
func (o object) noop(name string, params ...string) Op {
	return o.op(KindNoop, name, "", nil, false, params)
}

// local runs body in the page only. Navigation and window control live here.
func (o object) local(name, body string, params ...string) Op {
	return o.op(KindNoop, name, body, nil, false, params)
}

// constant returns v from both the script and Invoke.
func (o object) constant(name string, v Value, params ...string) Op {
	op := o.op(KindConst, name, "", nil, false, params)
	op.Value = v
	return op
}

// jsonString returns v encoded as a JSON string, the way several legacy
// getters hand structured data to portals.
func (o object) jsonString(name string, v any, params ...string) Op {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte("{}")
	}
	return o.constant(name, string(b), params...)
}

// drive is a mirrored call that drives the media bridge.
func (o object) drive(name, body string, fn OpFunc, params ...string) Op {
	return o.op(KindBridge, name, body, fn, true, params)
}

// read is a bridge getter.
func (o object) read(name, body string, fn OpFunc, params ...string) Op {
	return o.op(KindBridge, name, body, fn, false, params)
}

// set is a mirrored call that writes device state.
func (o object) set(name, body string, fn OpFunc, params ...string) Op {
	return o.op(KindState, name, body, fn, true, params)
}

// get is a device state getter.
func (o object) get(name, body string, fn OpFunc, params ...string) Op {
	return o.op(KindState, name, body, fn, false, params)
}

func ret(v Value) OpFunc {
	return func(*Device, Args) (Value, error) { return v, nil }
}

func identity(field func(Identity) string) OpFunc {
	return func(d *Device, _ Args) (Value, error) { return field(d.state.Identity), nil }
}

func playerField(field func(mediabridge.PlayerState) Value) OpFunc {
	return func(d *Device, _ Args) (Value, error) { return field(d.player()), nil }
}

func bridgeCall(fn func(b *mediabridge.Bridge, a Args)) OpFunc {
	return func(d *Device, a Args) (Value, error) {
		fn(d.bridge, a)
		return nil, nil
	}
}

func bridgeUpdate(fn func(p *mediabridge.PlayerState, a Args)) OpFunc {
	return func(d *Device, a Args) (Value, error) {
		d.bridge.Update(func(p *mediabridge.PlayerState) { fn(p, a) })
		return nil, nil
	}
}

func seconds(ms int64) int64 {
	return ms / 1000
}

func percent(p mediabridge.PlayerState) int64 {
	if p.Duration <= 0 {
		return 0
	}
	return p.Position * 100 / p.Duration
}

func secondsArg(a Args, i int) time.Duration {
	return time.Duration(a.Float(i) * float64(time.Second))
}

// Shared bridge operations.
var (
	playURL = func(urlArg int) OpFunc {
		return bridgeCall(func(b *mediabridge.Bridge, a Args) { b.Play(a.String(urlArg), 0) })
	}
	pausePlayer    = bridgeCall(func(b *mediabridge.Bridge, _ Args) { b.Pause() })
	continuePlayer = bridgeCall(func(b *mediabridge.Bridge, _ Args) { b.Continue() })
	stopPlayer     = bridgeCall(func(b *mediabridge.Bridge, _ Args) { b.Stop() })
	seekMillis     = bridgeCall(func(b *mediabridge.Bridge, a Args) { b.Seek(int64(a.Float(0))) })
	seekSeconds    = bridgeCall(func(b *mediabridge.Bridge, a Args) { b.Seek(int64(a.Float(0) * 1000)) })
	setVolume      = bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SetVolume(a.Int(0)) })
	setMute        = bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SetMute(a.Bool(0)) })
	setSpeed       = bridgeCall(func(b *mediabridge.Bridge, a Args) { b.SetSpeed(a.Float(0)) })
	isPlaying      = playerField(func(p mediabridge.PlayerState) Value { return p.Status == mediabridge.StatusPlaying })
	getVolume      = playerField(func(p mediabridge.PlayerState) Value { return p.Volume })
	getMute        = playerField(func(p mediabridge.PlayerState) Value { return p.Muted })
	positionSec    = playerField(func(p mediabridge.PlayerState) Value { return seconds(p.Position) })
	durationSec    = playerField(func(p mediabridge.PlayerState) Value { return seconds(p.Duration) })
)
