/*
Package web holds the customer and agent demo pages.

The pages are embedded into the binary; setting STATIC_DIR serves a directory from disk instead,
which is convenient while editing them.
*/
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed static
var embedded embed.FS

// Assets returns the file tree to serve: dir when non-empty, the embedded pages otherwise.
func Assets(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embedded, "static")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory %q is not a directory", dir)
	}

	return os.DirFS(dir), nil
}
