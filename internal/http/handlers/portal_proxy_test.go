package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jmylchreest/yasem/internal/models"
	"github.com/jmylchreest/yasem/internal/testutil"
	"github.com/jmylchreest/yasem/internal/urlutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalProxyHandler_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing url", "", "url parameter required"},
		{"relative url", "?url=" + url.QueryEscape("/c/index.html"), "Invalid URL"},
		{"unsupported scheme", "?url=" + url.QueryEscape("ftp://portal.example.test/"), "Invalid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := env.do(t, http.MethodGet, urlutil.ProxyPath+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestPortalProxyHandler_InjectsBootstrap(t *testing.T) {
	env := newTestEnv(t)
	env.createProfile(t, &models.Profile{ID: "p1", Name: "Test", ClassID: "mag"})
	portal := testutil.NewPortalServer(t, testutil.PortalPage)

	resp, data := env.do(t, http.MethodGet, urlutil.ProxyURL(portal.URL+"/c/", "p1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	body := string(data)
	assert.Contains(t, body, urlutil.ScriptURL("p1"))
	assert.Contains(t, body, "Hi")
}

func TestPortalProxyHandler_MirrorsStatus(t *testing.T) {
	env := newTestEnv(t)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"js":{}}`))
	}))
	t.Cleanup(origin.Close)

	resp, data := env.do(t, http.MethodGet, urlutil.ProxyURL(origin.URL+"/stalker_portal/server/load.php", "unknown"), nil)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"js":{}}`, string(data))
}

func TestPortalProxyHandler_Unreachable(t *testing.T) {
	env := newTestEnv(t)
	origin := testutil.NewPortalServer(t, "")
	target := origin.URL + "/c/"
	origin.Close()

	resp, data := env.do(t, http.MethodGet, urlutil.ProxyURL(target, ""), nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(data), "Portal Unavailable")
}

func TestPortalProxyHandler_Options(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodOptions, urlutil.ProxyPath, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPortalScriptHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createProfile(t, &models.Profile{
		ID:      "p1",
		Name:    "Test",
		ClassID: "mag",
		Config:  map[string]string{"mag/mac_address": "AA:BB:CC:DD:EE:FF"},
	})

	t.Run("missing profile id", func(t *testing.T) {
		resp, data := env.do(t, http.MethodGet, urlutil.ScriptPath, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"profileId required"}`, string(data))
	})

	t.Run("unknown profile", func(t *testing.T) {
		resp, data := env.do(t, http.MethodGet, urlutil.ScriptURL("nope"), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Profile not found"}`, string(data))
	})

	t.Run("script", func(t *testing.T) {
		resp, data := env.do(t, http.MethodGet, urlutil.ScriptURL("p1"), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/javascript")
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		assert.Contains(t, string(data), "gSTB")
		assert.Contains(t, string(data), "AA:BB:CC:DD:EE:FF")
	})
}
