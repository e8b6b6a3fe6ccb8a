package portalproxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	xhtml "golang.org/x/net/html"

	"github.com/jmylchreest/yasem/internal/urlutil"
)

const bootstrapTemplate = `
<script>
(function () {
  var base = %[1]s;
  var profileId = %[2]s;

  window.__yasemProfileId = profileId;

  function proxyUrl(url) {
    if (!url) return url;
    try {
      var abs = new URL(url, base).href;
      if (abs.indexOf(window.location.origin) === 0) return url;
      return %[3]s + '?url=' + encodeURIComponent(abs) + '&profileId=' + encodeURIComponent(profileId);
    } catch (e) {
      return url;
    }
  }

  window.__yasemProxyUrl = proxyUrl;
  window.open = function (url) {
    if (url) window.location.href = proxyUrl(url);
    return window;
  };
})();
</script>
<script src="%[4]s"></script>
`

// Bootstrap returns the markup inserted into proxied documents.
func Bootstrap(baseURL, profileID string) []byte {
	return fmt.Appendf(nil, bootstrapTemplate,
		jsString(baseURL),
		jsString(profileID),
		jsString(urlutil.ProxyPath),
		html.EscapeString(urlutil.ScriptURL(profileID)),
	)
}

// InjectBootstrap inserts the bootstrap markup immediately after the first
// opening head tag. Documents without a head tag are returned unchanged.
func InjectBootstrap(body []byte, baseURL, profileID string) []byte {
	at := headEnd(body)
	if at < 0 {
		return body
	}

	injection := Bootstrap(baseURL, profileID)
	out := make([]byte, 0, len(body)+len(injection))
	out = append(out, body[:at]...)
	out = append(out, injection...)
	return append(out, body[at:]...)
}

// headEnd returns the offset just past the first <head> start tag, or -1.
func headEnd(body []byte) int {
	z := xhtml.NewTokenizer(bytes.NewReader(body))
	offset := 0
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			return -1
		}
		offset += len(z.Raw())
		if tt != xhtml.StartTagToken && tt != xhtml.SelfClosingTagToken {
			continue
		}
		if name, _ := z.TagName(); string(name) == "head" {
			return offset
		}
	}
}

// jsString encodes s as a JavaScript string literal safe inside a script element.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
