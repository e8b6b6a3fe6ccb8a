package portalproxy

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jmylchreest/yasem/internal/emulation"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func newTestProxy() *Proxy {
	return New(NewClient(5*time.Second, 0, 0, 0, nil), nil).WithTimeout(5 * time.Second)
}

func TestUserAgentFor(t *testing.T) {
	tests := []struct {
		name    string
		profile *emulation.DeviceProfile
		want    string
	}{
		{"no profile", nil, DefaultUserAgent},
		{"known mag submodel", &emulation.DeviceProfile{ClassID: "mag", Submodel: "MAG256"}, tizenUserAgent},
		{"unknown mag submodel", &emulation.DeviceProfile{ClassID: "mag", Submodel: "MAG999"}, tizenUserAgent},
		{"submodel from config", &emulation.DeviceProfile{ClassID: "dunehd", Config: map[string]string{"profile/submodel": "Dune HD Connect"}}, tizenUserAgent},
		{"unknown family", &emulation.DeviceProfile{ClassID: "roku"}, tizenUserAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserAgentFor(tt.profile))
		})
	}
}

func TestUserAgentTableCoversFamilies(t *testing.T) {
	for _, f := range emulation.Families() {
		entries, ok := userAgents[f.ClassID()]
		require.True(t, ok, f.ClassID())
		assert.Equal(t, f.Submodels()[0], entries[0].submodel, f.ClassID())
	}
}

func TestParseTarget(t *testing.T) {
	_, err := ParseTarget("")
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = ParseTarget("javascript:alert(1)")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = ParseTarget("udp://239.1.1.1:1234")
	assert.ErrorIs(t, err, ErrInvalidURL)

	u, err := ParseTarget("http://example.test/page.html")
	require.NoError(t, err)
	assert.Equal(t, "example.test", u.Host)
}

func TestUnwrapReferer(t *testing.T) {
	target := mustURL(t, "http://portal.example:8080/c/index.html")

	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"missing", "", "http://portal.example:8080"},
		{"proxied", "http://localhost:3000/portal-proxy?url=" + url.QueryEscape("http://portal.example:8080/c/") + "&profileId=p1", "http://portal.example:8080/c/"},
		{"not proxied", "http://localhost:3000/portal/p1", "http://portal.example:8080"},
		{"unparsable", "://nope", "http://portal.example:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnwrapReferer(tt.referer, target))
		})
	}
}

func TestBuildUpstreamRequest(t *testing.T) {
	target := mustURL(t, "http://portal.example/c/index.html")
	incoming := httptest.NewRequest(http.MethodGet, "/portal-proxy", nil)
	incoming.Header.Set("Accept", "text/html")
	incoming.Header.Set("Cookie", "mac=00%3A1A%3A79%3A00%3A00%3A01; stb_lang=en")
	incoming.Header.Set("Referer", "http://localhost/portal-proxy?url="+url.QueryEscape("http://portal.example/c/"))

	req, err := BuildUpstreamRequest(context.Background(), target, incoming, &emulation.DeviceProfile{ClassID: "mag"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, tizenUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "text/html", req.Header.Get("Accept"))
	assert.Equal(t, "en-US,en;q=0.9", req.Header.Get("Accept-Language"))
	assert.Equal(t, "mac=00%3A1A%3A79%3A00%3A00%3A01; stb_lang=en", req.Header.Get("Cookie"))
	assert.Equal(t, "http://portal.example/c/", req.Header.Get("Referer"))
}

func TestBuildUpstreamRequest_Defaults(t *testing.T) {
	target := mustURL(t, "https://portal.example/c/")
	incoming := httptest.NewRequest(http.MethodGet, "/portal-proxy", nil)

	req, err := BuildUpstreamRequest(context.Background(), target, incoming, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "*/*", req.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("Cookie"))
	assert.Equal(t, "https://portal.example", req.Header.Get("Referer"))
}

func TestSanitizeHeaders_Idempotent(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "text/html")
	h.Set("Set-Cookie", "a=b")
	h.Set("Cache-Control", "no-cache")
	h["content-encoding"] = []string{"gzip"}
	h.Set("Content-Length", "42")
	h.Set("Transfer-Encoding", "chunked")
	h.Set("Connection", "keep-alive")
	h["X-FRAME-OPTIONS"] = []string{"DENY"}
	h.Set("Content-Security-Policy", "frame-ancestors 'none'")

	once := SanitizeHeaders(h)
	twice := SanitizeHeaders(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 3)
	for _, name := range strippedHeaders {
		for k := range once {
			assert.False(t, strings.EqualFold(k, name), k)
		}
	}
	assert.Equal(t, "text/html", once.Get("Content-Type"))
	assert.Equal(t, "a=b", once.Get("Set-Cookie"))
	assert.Equal(t, "no-cache", once.Get("Cache-Control"))

	// The input is not modified.
	assert.Equal(t, "DENY", h["X-FRAME-OPTIONS"][0])
}

func TestInjectBootstrap(t *testing.T) {
	body := []byte(`<!DOCTYPE html><html><HEAD lang="en"><title>x</title></HEAD><body>Hi</body></html>`)
	out := InjectBootstrap(body, "http://portal.example/c/", "p1")

	s := string(out)
	idx := strings.Index(s, `<HEAD lang="en">`)
	require.GreaterOrEqual(t, idx, 0)
	rest := s[idx+len(`<HEAD lang="en">`):]
	assert.True(t, strings.HasPrefix(rest, "\n<script>"))
	assert.Equal(t, 1, strings.Count(s, `<script src="/portal-script?profileId=p1"></script>`))
	assert.Contains(t, s, `window.__yasemProfileId = profileId;`)
	assert.Contains(t, s, `var base = "http://portal.example/c/";`)
	assert.True(t, strings.HasSuffix(s, `<title>x</title></HEAD><body>Hi</body></html>`))
}

func TestInjectBootstrap_SkipsLookalikes(t *testing.T) {
	body := []byte(`<html><!-- <head> --><header>h</header><head></head></html>`)
	out := string(InjectBootstrap(body, "http://portal.example/", "p1"))

	assert.True(t, strings.HasPrefix(out, `<html><!-- <head> --><header>h</header><head>`+"\n<script>"))
}

func TestInjectBootstrap_NoHead(t *testing.T) {
	body := []byte(`<html><body>no head here</body></html>`)
	assert.Equal(t, body, InjectBootstrap(body, "http://portal.example/", "p1"))
}

func TestInjectBootstrap_EscapesProfileID(t *testing.T) {
	out := string(InjectBootstrap([]byte(`<head></head>`), "http://portal.example/", `"</script><script>alert(1)//`))

	assert.Equal(t, 2, strings.Count(out, "<script"))
	assert.Equal(t, 2, strings.Count(out, "</script>"))
	assert.NotContains(t, out, `<script>alert(1)`)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("text/html", nil))
	assert.True(t, isHTML("text/html; charset=windows-1251", nil))
	assert.True(t, isHTML("TEXT/HTML", nil))
	assert.False(t, isHTML("application/javascript", []byte("<html>")))
	assert.True(t, isHTML("", []byte("<!DOCTYPE html><html><head></head></html>")))
	assert.False(t, isHTML("", []byte(`{"js":{"token":"x"}}`)))
}

func TestDecodeHTML(t *testing.T) {
	t.Run("utf-8 kept", func(t *testing.T) {
		body := []byte("<html><head></head><body>Привет</body></html>")
		out, name := decodeHTML(body, "text/html")
		assert.Equal(t, body, out)
		assert.Equal(t, "utf-8", name)
	})

	t.Run("header charset", func(t *testing.T) {
		out, _ := decodeHTML([]byte("<p>caf\xe9</p>"), "text/html; charset=iso-8859-1")
		assert.Equal(t, "<p>café</p>", string(out))
	})

	t.Run("meta charset", func(t *testing.T) {
		cyr, err := charmap.Windows1251.NewEncoder().String("Привет")
		require.NoError(t, err)
		body := []byte(`<html><head><meta charset="windows-1251"></head><body>` + cyr + `</body></html>`)

		out, name := decodeHTML(body, "text/html")
		assert.Equal(t, "windows-1251", name)
		assert.Contains(t, string(out), "Привет")
	})
}

func TestErrorPage(t *testing.T) {
	page := string(ErrorPage(`http://portal.example/"><script>alert(1)</script>`))

	assert.Contains(t, page, "Portal Unavailable")
	assert.Contains(t, page, "profile configuration")
	assert.NotContains(t, page, "<script>alert(1)</script>")
}

func TestFetch_InjectsIntoHTML(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tizenUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Set-Cookie", "sid=1")
		_, _ = w.Write([]byte(`<html><head></head><body>Hi</body></html>`))
	}))
	defer origin.Close()

	target := mustURL(t, origin.URL+"/page.html")
	resp, err := newTestProxy().Fetch(context.Background(), Request{
		Target:    target,
		ProfileID: "p1",
		Profile:   &emulation.DeviceProfile{ID: "p1", ClassID: "mag"},
		Incoming:  httptest.NewRequest(http.MethodGet, "/portal-proxy", nil),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.HTML)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	assert.Empty(t, resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "sid=1", resp.Header.Get("Set-Cookie"))
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	require.NoError(t, err)
	scripts := doc.Find("head > script")
	require.Equal(t, 2, scripts.Length())

	_, hasSrc := scripts.First().Attr("src")
	assert.False(t, hasSrc)
	assert.Contains(t, scripts.First().Text(), "__yasemProfileId")
	src, _ := scripts.Last().Attr("src")
	assert.Equal(t, "/portal-script?profileId=p1", src)
	assert.Equal(t, "Hi", doc.Find("body").Text())
}

func TestFetch_MirrorsStatusAndPassesThroughAssets(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.js":
			w.Header().Set("Content-Type", "application/javascript")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("// nope"))
		case "/logo":
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(payload)
		}
	}))
	defer origin.Close()

	p := newTestProxy()

	resp, err := p.Fetch(context.Background(), Request{Target: mustURL(t, origin.URL+"/missing.js")})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.HTML)
	assert.Equal(t, "// nope", string(resp.Body))

	resp, err = p.Fetch(context.Background(), Request{Target: mustURL(t, origin.URL+"/logo")})
	require.NoError(t, err)
	assert.Equal(t, payload, resp.Body)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestFetch_RepeatedServerErrorsStayMirrored(t *testing.T) {
	var hits atomic.Int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer origin.Close()

	p := New(NewClient(5*time.Second, 0, 2, time.Hour, nil), nil)
	target := mustURL(t, origin.URL+"/stalker_portal/server/load.php")

	for i := range 8 {
		resp, err := p.Fetch(context.Background(), Request{Target: target})
		require.NoError(t, err, "fetch %d", i)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "boom", string(resp.Body))
	}
	assert.EqualValues(t, 8, hits.Load())
}

func TestFetch_FollowsRedirectsAndUsesFinalBase(t *testing.T) {
	var originURL string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/c/index.html", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head></head></html>`))
	}))
	defer origin.Close()
	originURL = origin.URL

	resp, err := newTestProxy().Fetch(context.Background(), Request{Target: mustURL(t, originURL+"/"), ProfileID: "p1"})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), `var base = "`+originURL+`/c/index.html";`)
}

func TestFetch_UnknownProfileUsesConfiguredAgent(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	defer origin.Close()

	resp, err := newTestProxy().WithUserAgent("Custom/1.0").Fetch(context.Background(), Request{
		Target:    mustURL(t, origin.URL+"/ua"),
		ProfileID: "ghost",
	})
	require.NoError(t, err)
	assert.Equal(t, "Custom/1.0", string(resp.Body))
}

func TestFetch_UnreachableOrigin(t *testing.T) {
	origin := httptest.NewServer(http.NotFoundHandler())
	target := mustURL(t, origin.URL+"/page.html")
	origin.Close()

	_, err := newTestProxy().Fetch(context.Background(), Request{Target: target})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "http://portal.example/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "http://portal.example/")
}
