package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/yasem/internal/assets"
)

// StaticPrefix is the URL prefix of the embedded host page assets.
const StaticPrefix = "/static/"

// StaticHandler serves the embedded host page. Every screen route gets the
// same index.html; host.js picks the screen from the path.
type StaticHandler struct {
	files      fs.FS
	fileServer http.Handler
	index      []byte
}

// NewStaticHandler creates a new static asset handler.
func NewStaticHandler() (*StaticHandler, error) {
	files, err := assets.GetStaticFS()
	if err != nil {
		return nil, err
	}
	index, err := assets.ReadIndex()
	if err != nil {
		return nil, err
	}
	return &StaticHandler{
		files:      files,
		fileServer: http.FileServer(http.FS(files)),
		index:      index,
	}, nil
}

// RegisterChiRoutes registers the host page routes.
func (h *StaticHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/", h.ServeIndex)
	r.Get("/portal/{profileId}", h.ServeIndex)
	r.Get("/profiles/{profileId}/config", h.ServeIndex)
	r.Get(StaticPrefix+"*", h.ServeAsset)
}

// ServeIndex writes the host page.
func (h *StaticHandler) ServeIndex(w http.ResponseWriter, _ *http.Request) {
	h.setHeaders(w, assets.IndexFile)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.index)
}

// ServeAsset serves one file under StaticPrefix.
func (h *StaticHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(path.Clean(r.URL.Path), StaticPrefix)
	if filePath == "" || filePath == assets.IndexFile {
		http.NotFound(w, r)
		return
	}
	if info, err := fs.Stat(h.files, filePath); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	h.setHeaders(w, filePath)
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + filePath
	h.fileServer.ServeHTTP(w, r2)
}

// setHeaders sets content-type and cache headers.
func (h *StaticHandler) setHeaders(w http.ResponseWriter, filePath string) {
	w.Header().Set("Content-Type", assets.GetContentType(filePath))
	if strings.HasSuffix(filePath, ".html") {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
}
