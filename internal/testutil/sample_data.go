// Package testutil provides test utilities including sample data generation.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jmylchreest/yasem/internal/emulation"
	"github.com/jmylchreest/yasem/internal/models"
)

// Fictional portal hosts for test data. NEVER use real operator domains.
var PortalHosts = []string{
	"portal.streamcast.test",
	"mw.viewmedia.test",
	"stb.aerovision.test",
	"iptv.globalstream.test",
}

// macPrefixes are the OUIs used by generated identities, per family.
var macPrefixes = map[string]string{
	"mag":     "00:1A:79",
	"dunehd":  "00:22:33",
	"samsung": "00:11:22",
}

// SampleDataGenerator generates realistic test profiles.
type SampleDataGenerator struct {
	rng *rand.Rand
}

// NewSampleDataGenerator creates a generator seeded from the clock.
func NewSampleDataGenerator() *SampleDataGenerator {
	return NewSampleDataGeneratorWithSeed(time.Now().UnixNano())
}

// NewSampleDataGeneratorWithSeed creates a generator with a fixed seed for
// reproducible tests.
func NewSampleDataGeneratorWithSeed(seed int64) *SampleDataGenerator {
	return &SampleDataGenerator{rng: rand.New(rand.NewSource(seed))}
}

// RandomPortal returns a portal URL on one of the fictional hosts.
func (g *SampleDataGenerator) RandomPortal() string {
	return fmt.Sprintf("http://%s/c/", PortalHosts[g.rng.Intn(len(PortalHosts))])
}

// RandomMAC returns a MAC address with the family's prefix.
func (g *SampleDataGenerator) RandomMAC(classID string) string {
	prefix, ok := macPrefixes[classID]
	if !ok {
		prefix = "02:00:00"
	}
	return fmt.Sprintf("%s:%02X:%02X:%02X", prefix, g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256))
}

// RandomSerial returns an upper-case hex serial number.
func (g *SampleDataGenerator) RandomSerial() string {
	return strings.ToUpper(fmt.Sprintf("%013x", g.rng.Int63()&0xFFFFFFFFFFFFF))
}

// RandomSubmodel returns one of the family's known submodels.
func (g *SampleDataGenerator) RandomSubmodel(classID string) string {
	f, err := emulation.FamilyFor(classID)
	if err != nil {
		return ""
	}
	subs := f.Submodels()
	return subs[g.rng.Intn(len(subs))]
}

// GenerateProfile returns an unsaved profile of the given family with a
// generated identity. The ID is left empty.
func (g *SampleDataGenerator) GenerateProfile(classID string) *models.Profile {
	return &models.Profile{
		Name:     fmt.Sprintf("%s test box %d", classID, g.rng.Intn(1000)),
		ClassID:  classID,
		Submodel: g.RandomSubmodel(classID),
		Portal:   g.RandomPortal(),
		Config: map[string]string{
			classID + "/mac_address":   g.RandomMAC(classID),
			classID + "/serial_number": g.RandomSerial(),
		},
	}
}
