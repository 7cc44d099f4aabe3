package fu

import (
	"path/filepath"

	"go-ml.dev/pkg/iokit"
)

// ModelPath resolves a model file name against the user cache directory.
// Absolute paths are returned as is.
func ModelPath(s string) string {
	if filepath.IsAbs(s) {
		return s
	}
	return iokit.CacheFile(filepath.Join("covid-forecast", "models", s))
}
