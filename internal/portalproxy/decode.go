package portalproxy

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// minDetectConfidence is the chardet confidence below which detection is ignored.
const minDetectConfidence = 50

// isHTML reports whether a response should be rewritten. A missing
// Content-Type is sniffed from the body.
func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		return mimetype.Detect(body).Is("text/html")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html"
}

// sniffContentType returns a Content-Type for bodies the portal sent without one.
func sniffContentType(body []byte) string {
	return mimetype.Detect(body).String()
}

// decodeHTML converts body to UTF-8. A charset from the header or a BOM is
// trusted; otherwise valid UTF-8 is kept, a meta declaration is honored, and
// statistical detection decides the rest. The returned name is the source encoding.
func decodeHTML(body []byte, contentType string) ([]byte, string) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain {
		if utf8.Valid(body) {
			return body, "utf-8"
		}
		// DetermineEncoding falls back to windows-1252 when nothing is declared.
		if name == "windows-1252" {
			if e, n, ok := detectEncoding(body); ok {
				enc, name = e, n
			}
		}
	}
	if name == "utf-8" {
		return body, name
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body, name
	}
	return decoded, name
}

func detectEncoding(body []byte) (encoding.Encoding, string, bool) {
	res, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || res.Confidence < minDetectConfidence {
		return nil, "", false
	}
	enc, err := htmlindex.Get(res.Charset)
	if err != nil {
		return nil, "", false
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(res.Charset)
	}
	return enc, name, true
}
