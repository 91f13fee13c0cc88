package locator

import (
	"path/filepath"
	"strings"

	"github.com/vvka-141/psqlc/internal/files/filesystem"
)

// excludedDirs are dependency, build and cache directories never descended into.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"__pycache__":  true,
}

// envDirMarker excludes virtualenv-style directories such as "my-env" or "py-env3".
const envDirMarker = "-env"

// IsExcluded reports whether a directory with this name is pruned from the scan.
func IsExcluded(name string) bool {
	return excludedDirs[name] || strings.Contains(name, envDirMarker)
}

// Walker performs a bounded depth-first search for a file by name.
type Walker struct {
	fs filesystem.FileSystemProvider
}

// NewWalker creates a Walker reading through fsys.
func NewWalker(fsys filesystem.FileSystemProvider) *Walker {
	return &Walker{fs: fsys}
}

// Find searches root and its subdirectories, at most maxDepth levels below
// root, for a file named filename. Depth 0 is root itself. The directory is
// checked before its children and children are visited in listing order, so
// the first hit is deterministic. Unreadable directories count as empty.
func (w *Walker) Find(root, filename string, maxDepth int) (string, bool) {
	return w.search(root, filename, 0, maxDepth)
}

func (w *Walker) search(dir, filename string, depth, maxDepth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}

	candidate := filepath.Join(dir, filename)
	if filesystem.IsFile(w.fs, candidate) {
		return candidate, true
	}

	// Children would sit past the bound; skip the listing entirely.
	if depth == maxDepth {
		return "", false
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !entry.IsDir() || IsExcluded(entry.Name()) {
			continue
		}
		if found, ok := w.search(filepath.Join(dir, entry.Name()), filename, depth+1, maxDepth); ok {
			return found, true
		}
	}

	return "", false
}
