package server

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// precompressed lists the sibling encodings looked up for each asset, in
// order of preference.
var precompressed = []struct {
	encoding string
	ext      string
}{
	{"br", ".br"},
	{"gzip", ".gz"},
}

// staticHandler serves the UI bundle from an fs.FS, preferring a
// pre-compressed sibling (index.html.br, index.html.gz) when the client
// accepts its encoding.
type staticHandler struct {
	assets fs.FS
}

func newStaticHandler(assets fs.FS) *staticHandler {
	return &staticHandler{assets: assets}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ok := h.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Add("Vary", "Accept-Encoding")

	accept := r.Header.Get("Accept-Encoding")
	for _, pc := range precompressed {
		if !acceptsEncoding(accept, pc.encoding) {
			continue
		}
		if h.serveFile(w, r, name, name+pc.ext, pc.encoding) {
			return
		}
	}

	if !h.serveFile(w, r, name, name, "") {
		http.NotFound(w, r)
	}
}

// resolve maps a URL path to an asset name, following directories to
// their index.html.
func (h *staticHandler) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "index.html"
	}
	if !fs.ValidPath(name) {
		return "", false
	}

	info, err := fs.Stat(h.assets, name)
	if err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", false
	}
	return name, true
}

// serveFile writes the asset stored at file, typed after name. It returns
// false if file does not exist or is a directory.
func (h *staticHandler) serveFile(w http.ResponseWriter, r *http.Request, name, file, encoding string) bool {
	f, err := h.assets.Open(file)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "failed to read asset", http.StatusInternalServerError)
			return true
		}
		content = bytes.NewReader(data)
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" && encoding != "" {
		ctype = "application/octet-stream"
	}
	if ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	if encoding != "" {
		w.Header().Set("Content-Encoding", encoding)
	}

	http.ServeContent(w, r, name, info.ModTime(), content)
	return true
}

// acceptsEncoding reports whether an Accept-Encoding header allows enc.
func acceptsEncoding(header, enc string) bool {
	for _, part := range strings.Split(header, ",") {
		token, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		token = strings.TrimSpace(token)
		if !strings.EqualFold(token, enc) && token != "*" {
			continue
		}
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				return false
			}
		}
		return true
	}
	return false
}
