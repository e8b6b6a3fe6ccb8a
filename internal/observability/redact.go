package observability

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

const redacted = "[REDACTED]"

// macPattern matches colon or dash separated hardware addresses. Emulated
// devices identify themselves to portals by MAC so these are credentials.
var macPattern = regexp.MustCompile(`(?i)\b[0-9a-f]{2}([:-][0-9a-f]{2}){5}\b`)

var sensitiveKeys = []string{"cookie", "authorization", "password", "token", "serial", "mac_address"}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// newRedactor returns a slog ReplaceAttr func that hides sensitive values.
// Top-level keys are matched by name; nested structs and string values are
// handed to masq.
func newRedactor() func([]string, slog.Attr) slog.Attr {
	m := masq.New(
		masq.WithFieldName("Cookie"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("SerialNumber"),
		masq.WithFieldName("MACAddress"),
		masq.WithTag("secret"),
		masq.WithRegex(macPattern),
	)
	return func(groups []string, a slog.Attr) slog.Attr {
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, redacted)
		}
		return m(groups, a)
	}
}
