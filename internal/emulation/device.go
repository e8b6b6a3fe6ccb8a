package emulation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/yasem/internal/mediabridge"
	"github.com/jmylchreest/yasem/internal/observability"
)

// Device events raised outside the media bridge.
const (
	EventTopWindowChanged = "topWindowChanged"
	EventViewportChanged  = "viewportChanged"
	EventShowSubtitle     = "showSubtitle"
	EventPortalEvent      = "portalEvent"
)

// Device is the server-side half of one emulated set-top box. It owns the
// session's State and drives its Bridge. Calls are serialised.
type Device struct {
	mu      sync.Mutex
	family  Family
	profile DeviceProfile
	config  map[string]string
	state   *State
	bridge  *mediabridge.Bridge
	emitter *mediabridge.Emitter
	logger  *slog.Logger
}

// NewDevice resolves the profile's family and identity. The bridge is seeded
// with the resolved player state and the family's URL translation.
func NewDevice(profile DeviceProfile, bridge *mediabridge.Bridge, emitter *mediabridge.Emitter, logger *slog.Logger) (*Device, error) {
	f, err := FamilyFor(profile.ClassID)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	config := profile.EffectiveConfig()
	state := f.DefaultState(config)
	if bridge == nil {
		bridge = mediabridge.NewBridge(emitter, logger)
	}
	bridge.WithState(state.Player).WithURLTranslator(func(url string) string {
		return TranslateURL(config, url)
	})

	return &Device{
		family:  f,
		profile: profile,
		config:  config,
		state:   state,
		bridge:  bridge,
		emitter: emitter,
		logger:  logger.With(slog.String("family", f.ClassID())),
	}, nil
}

// EffectiveConfig returns the profile config with submodel folded in under
// profile/submodel. Explicit config entries win.
func (p DeviceProfile) EffectiveConfig() map[string]string {
	config := make(map[string]string, len(p.Config)+1)
	if p.Submodel != "" {
		config[ConfigKeySubmodel] = p.Submodel
	}
	for k, v := range p.Config {
		config[k] = v
	}
	return config
}

// Family returns the device's family.
func (d *Device) Family() Family { return d.family }

// Profile returns the profile the device was built from.
func (d *Device) Profile() DeviceProfile { return d.profile }

// Bridge returns the device's media bridge.
func (d *Device) Bridge() *mediabridge.Bridge { return d.bridge }

// Invoke dispatches a legacy call by name. Stub operations return their
// fixed value. Only names outside the catalog are an error.
func (d *Device) Invoke(name string, args ...Value) (Value, error) {
	op, ok := d.family.Catalog().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Log(context.Background(), observability.LevelTrace, "invoke", slog.String("op", op.Qualified()), slog.Int("args", len(args)))

	if op.Fn != nil {
		return op.Fn(d, Args(args))
	}
	if op.Kind == KindConst {
		return op.Value, nil
	}
	return nil, nil
}

// State returns a copy of the device state with the live player state.
func (d *Device) State() *State {
	d.mu.Lock()
	s := d.state.Clone()
	d.mu.Unlock()

	s.Player = d.bridge.Snapshot()
	return s
}

// Script renders the family script for the current state.
func (d *Device) Script() (string, error) {
	return d.family.BuildScript(d.State(), d.config)
}

func (d *Device) emit(name string, payload map[string]any) {
	d.emitter.Emit(mediabridge.Event{Name: name, Payload: payload})
}

func (d *Device) player() mediabridge.PlayerState {
	return d.bridge.Snapshot()
}
