package emulation

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Family builds the legacy API surface of one device family.
type Family interface {
	// ClassID is the profile class id, e.g. "mag".
	ClassID() string
	// Name is a human readable family name.
	Name() string
	// Submodels lists the known models, the first being the default.
	Submodels() []string
	// DefaultState resolves identity from config and returns a fresh state.
	DefaultState(config map[string]string) *State
	// BuildScript renders the emulation script for state.
	BuildScript(state *State, config map[string]string) (string, error)
	// Catalog returns the family's operations.
	Catalog() *Catalog
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Family{}
)

func register(f Family) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f.ClassID()] = f
}

// FamilyFor returns the family registered for classID.
func FamilyFor(classID string) (Family, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[classID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, classID)
	}
	return f, nil
}

// Families returns every registered family ordered by class id.
func Families() []Family {
	registryMu.RLock()
	defer registryMu.RUnlock()
	families := make([]Family, 0, len(registry))
	for _, f := range registry {
		families = append(families, f)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].ClassID() < families[j].ClassID()
	})
	return families
}

// family is the table-driven Family implementation shared by all families.
type family struct {
	classID   string
	name      string
	template  string
	submodels []string
	catalog   *Catalog
	resolve   func(s *State, config map[string]string)
}

func (f *family) ClassID() string     { return f.classID }
func (f *family) Name() string        { return f.name }
func (f *family) Submodels() []string { return slices.Clone(f.submodels) }
func (f *family) Catalog() *Catalog   { return f.catalog }

func (f *family) DefaultState(config map[string]string) *State {
	s := newState(config)
	if f.resolve != nil {
		f.resolve(s, config)
	}
	return s
}

func (f *family) BuildScript(state *State, config map[string]string) (string, error) {
	if state == nil {
		state = f.DefaultState(config)
	}
	return renderScript(f.template, scriptData{
		ClassID: f.classID,
		State:   state,
		Multicast: multicastConfig{
			Enabled: config[ConfigKeyUseMulticastProxy] == "true",
			URL:     config[ConfigKeyMulticastProxyURL],
		},
		catalog: f.catalog,
	})
}
