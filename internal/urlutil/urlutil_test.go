package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTTPURL(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"http://portal.example/c/", true},
		{"HTTPS://portal.example", true},
		{"", false},
		{"not a url", false},
		{"ftp://portal.example/", false},
		{"udp://239.0.0.1:1234", false},
		{"/relative/path", false},
		{"http://", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := ParseHTTPURL(tt.raw)
			if tt.ok {
				require.NoError(t, err)
				assert.NotEmpty(t, u.Host)
				return
			}
			assert.ErrorIs(t, err, ErrNotHTTP)
		})
	}
}

func TestOrigin(t *testing.T) {
	u, err := url.Parse("https://portal.example:8443/c/index.html?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example:8443", Origin(u))
}

func TestProxyURL_RoundTrip(t *testing.T) {
	target := "http://portal.example/c/index.html?a=1&b=two words"
	proxied := ProxyURL(target, "01HPROFILE")

	assert.Contains(t, proxied, ProxyPath+"?")
	got, ok := UnwrapProxyURL(proxied)
	require.True(t, ok)
	assert.Equal(t, target, got)

	got, ok = UnwrapProxyURL("http://localhost:8080" + proxied)
	require.True(t, ok)
	assert.Equal(t, target, got)
}

func TestUnwrapProxyURL_NotProxied(t *testing.T) {
	for _, raw := range []string{
		"http://portal.example/c/",
		"/portal-proxy",
		"/portal-proxy?profileId=x",
		"://bad",
	} {
		_, ok := UnwrapProxyURL(raw)
		assert.False(t, ok, raw)
	}
}

func TestScriptURL(t *testing.T) {
	assert.Equal(t, "/portal-script?profileId=a+b%26c", ScriptURL("a b&c"))
}
