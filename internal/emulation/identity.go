package emulation

import (
	"encoding/base64"
	"strings"
)

const uidLength = 32

// TranslateURL rewrites udp:// and rtp:// URLs onto the configured multicast
// proxy when network/use_multicast_proxy is "true".
func TranslateURL(config map[string]string, url string) string {
	if config[ConfigKeyUseMulticastProxy] != "true" {
		return url
	}
	for _, scheme := range []string{"udp://", "rtp://"} {
		if strings.HasPrefix(url, scheme) {
			return config[ConfigKeyMulticastProxyURL] + strings.TrimPrefix(url, scheme)
		}
	}
	return url
}

// DeviceUID derives the portal-visible device id from a MAC address. Without
// a first seed it is the bare MAC; otherwise the base64 of MAC and seeds,
// truncated to 32 characters.
func DeviceUID(mac, seed1, seed2 string) string {
	bare := strings.ReplaceAll(mac, ":", "")
	if seed1 == "" {
		return bare
	}
	uid := base64.StdEncoding.EncodeToString([]byte(bare + seed1 + seed2))
	if len(uid) > uidLength {
		uid = uid[:uidLength]
	}
	return uid
}

// HashVersion1 is base64 of the UTF-8 bytes of secret followed by key.
func HashVersion1(secret, key string) string {
	return base64.StdEncoding.EncodeToString([]byte(secret + key))
}
