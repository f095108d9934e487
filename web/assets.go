// Package web provides the UI bundle served by devmock.
//
// A live directory (normally the output of the UI build) takes precedence so
// rebuilt assets show up without restarting. When it does not exist the
// small embedded page in dist/ is served instead.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed dist/*
var assets embed.FS

// DefaultRoot is the live asset directory checked when none is configured.
const DefaultRoot = "./web/dist"

// GetAssets returns the live directory at root if it exists, otherwise the
// embedded bundle. The second result reports whether the live directory
// was used.
func GetAssets(root string) (fs.FS, bool) {
	if root == "" {
		root = DefaultRoot
	}

	if stat, err := os.Stat(root); err == nil && stat.IsDir() {
		return os.DirFS(root), true
	}

	return Embedded(), false
}

// Embedded returns the bundle compiled into the binary.
func Embedded() fs.FS {
	subFS, err := fs.Sub(assets, "dist")
	if err != nil {
		panic("failed to access embedded web assets: " + err.Error())
	}
	return subFS
}
