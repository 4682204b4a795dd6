// Package file has small path helpers for files derived from a recording:
// rendered tabs, exported MIDI, analysis caches.
package file

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// WithExt swaps the path's extension for ext. Ext must include the dot.
func WithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// TempName returns a fresh scratch filename inside dir for
// write-then-rename flows. The name never collides across processes.
func TempName(dir, ext string) string {
	return filepath.Join(dir, uuid.New().String()+ext)
}
