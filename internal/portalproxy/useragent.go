package portalproxy

import "github.com/jmylchreest/yasem/internal/emulation"

// DefaultUserAgent is sent when the request names no profile.
const DefaultUserAgent = "Mozilla/5.0"

const tizenUserAgent = "Mozilla/5.0 (SMART-TV; Linux; Tizen 5.0) AppleWebKit/538.1 (KHTML, like Gecko) Version/5.0 TV Safari/538.1"

type uaEntry struct {
	submodel string
	ua       string
}

// userAgents is ordered; the first entry of a family is its fallback.
var userAgents = map[string][]uaEntry{
	"mag": {
		{"MAG250", tizenUserAgent},
		{"MAG255", tizenUserAgent},
		{"MAG256", tizenUserAgent},
		{"MAG275", tizenUserAgent},
		{"AuraHD", tizenUserAgent},
	},
	"dunehd": {
		{"Dune HD TV-102", tizenUserAgent},
		{"Dune HD Connect", tizenUserAgent},
	},
	"samsung": {
		{"Samsung SmartTV 2015", tizenUserAgent},
	},
}

// UserAgentFor returns the User-Agent presented upstream for profile.
// An unknown submodel falls back to the family's first entry and an unknown
// family to the generic smart-TV string.
func UserAgentFor(profile *emulation.DeviceProfile) string {
	if profile == nil {
		return DefaultUserAgent
	}
	entries, ok := userAgents[profile.ClassID]
	if !ok || len(entries) == 0 {
		return tizenUserAgent
	}
	submodel := profile.EffectiveConfig()[emulation.ConfigKeySubmodel]
	for _, e := range entries {
		if e.submodel == submodel {
			return e.ua
		}
	}
	return entries[0].ua
}
