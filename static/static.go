// Package static provides an HTTP handler that serves the compiled stylesheet.
package static

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/twcli/twcli/config"
)

// New returns a Handler for the dist stylesheet of c, mounted at its
// StylesheetURL. Files are re-read whenever their size or mod time changes,
// so the output of a running watch process is picked up.
func New(c config.Config) (*Handler, error) {
	file, err := c.FullDistCSSPath()
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(c.StylesheetURL())
	if err != nil {
		return nil, err
	}

	h := &Handler{
		urlPath: path.Clean("/" + u.Path),
		file:    file,
	}
	if c.Debug {
		h.cacheControl = "no-cache"
	} else {
		h.SetMaxAge(3600)
	}
	return h, nil
}

// Handler serves a single CSS file with an ETag.
type Handler struct {
	urlPath      string
	file         string
	cacheControl string
	notFound     http.Handler

	rwmu  sync.RWMutex
	cache *cacheValue
}

type cacheValue struct {
	size    int64  // in bytes
	tsnano  int64  // file mod time
	content string // output
	hash    uint64 // for e-tag
}

// SetMaxAge sets a public Cache-Control max-age in seconds.
func (h *Handler) SetMaxAge(n int) {
	h.cacheControl = fmt.Sprintf("public, max-age=%d", n)
}

// SetNotFoundHandler assigns the handler for every other path.
func (h *Handler) SetNotFoundHandler(nfh http.Handler) {
	h.notFound = nfh
}

// Path is the URL path the stylesheet is served at.
func (h *Handler) Path() string {
	return h.urlPath
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if path.Clean(r.URL.Path) != h.urlPath {
		if h.notFound != nil {
			h.notFound.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(h.file)
	if err != nil {
		code := 500
		if os.IsPermission(err) {
			code = 403
		} else if os.IsNotExist(err) {
			code = 404
		}
		http.Error(w, fmt.Sprintf("error opening %s: %v", r.URL.Path, err), code)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		http.Error(w, fmt.Sprintf("stat failed for %s: %v", r.URL.Path, err), 500)
		return
	}

	cv, err := h.load(f, st)
	if err != nil {
		http.Error(w, fmt.Sprintf("reading failed on %s: %v", r.URL.Path, err), 500)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("ETag", fmt.Sprintf(`"%016x"`, cv.hash))
	if w.Header().Get("Cache-Control") == "" && h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}

	// handles 304s via the ETag set above
	http.ServeContent(w, r, path.Base(h.urlPath), st.ModTime(), strings.NewReader(cv.content))
}

func (h *Handler) load(r io.Reader, st os.FileInfo) (*cacheValue, error) {
	h.rwmu.RLock()
	cv := h.cache
	h.rwmu.RUnlock()
	if cv != nil && cv.size == st.Size() && cv.tsnano == st.ModTime().UnixNano() {
		return cv, nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cv = &cacheValue{
		size:    st.Size(),
		tsnano:  st.ModTime().UnixNano(),
		content: string(b),
		hash:    xxhash.Sum64(b),
	}

	h.rwmu.Lock()
	h.cache = cv
	h.rwmu.Unlock()
	return cv, nil
}
