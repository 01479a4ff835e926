package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// pageAliases maps the short page URLs used in the demo to their files.
var pageAliases = map[string]string{
	"/customer": "/customer.html",
	"/agent":    "/agent.html",
}

// StaticHandler serves the customer and agent pages and their assets from assets.
// Unknown paths get a plain 404; directory listings are never produced.
func StaticHandler(assets fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(assets))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		p := path.Clean("/" + r.URL.Path)
		if alias, ok := pageAliases[p]; ok {
			p = alias
		}

		name := strings.TrimPrefix(p, "/")
		if name == "" {
			name = "index.html"
		}

		info, err := fs.Stat(assets, name)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = p
		fileServer.ServeHTTP(w, r2)
	})
}
