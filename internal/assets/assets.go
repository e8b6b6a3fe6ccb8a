// Package assets embeds the yasem host page: the profiles screen, the
// profile configuration screen, and the portal viewer with its video layer.
package assets

import (
	"embed"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
)

// StaticFS embeds the static/ directory.
//
//go:embed all:static
var StaticFS embed.FS

// IndexFile is the host page served for every screen route.
const IndexFile = "index.html"

// GetStaticFS returns a sub-filesystem rooted at "static/".
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}

// ReadIndex returns the host page.
func ReadIndex() ([]byte, error) {
	return StaticFS.ReadFile("static/" + IndexFile)
}

// GetContentType returns the MIME type for a given file path based on extension.
func GetContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "":
		return "application/octet-stream"
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json", ".map":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

// ListAssets returns the embedded asset paths relative to static/.
func ListAssets() ([]string, error) {
	var assets []string

	err := fs.WalkDir(StaticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			assets = append(assets, strings.TrimPrefix(path, "static/"))
		}
		return nil
	})

	return assets, err
}
