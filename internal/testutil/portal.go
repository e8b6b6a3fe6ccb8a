package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// PortalPage is a minimal portal document.
const PortalPage = `<html><head></head><body>Hi</body></html>`

// NewPortalServer starts an origin serving body as text/html on every path.
// It is closed when the test ends.
func NewPortalServer(t testing.TB, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-Frame-Options", "DENY")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
