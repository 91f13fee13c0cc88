// Package locator finds configuration artifacts on disk with a bounded
// two-phase search: first the start directory's own subtree, then the
// subtree of each ancestor in turn.
package locator

import (
	"path/filepath"

	"github.com/vvka-141/psqlc/internal/files/filesystem"
	"github.com/vvka-141/psqlc/internal/logging"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// Locator orchestrates the Walker across the downward and upward phases.
type Locator struct {
	walker *Walker
	logger psqlc.Logger
	onRoot func(root string)
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for verbose search tracing.
func WithLogger(logger psqlc.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// WithSearchRootHook registers fn to be called with every directory a
// downward search is started from.
func WithSearchRootHook(fn func(root string)) Option {
	return func(l *Locator) {
		l.onRoot = fn
	}
}

// New creates a Locator reading through fsys.
func New(fsys filesystem.FileSystemProvider, opts ...Option) *Locator {
	l := &Locator{
		walker: NewWalker(fsys),
		logger: logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate searches for filename.
//
// Phase 1 scans startDir's subtree up to maxDown levels deep. If that fails
// and maxUp > 0, phase 2 walks up to maxUp ancestors of startDir, nearest
// first, and repeats the bounded downward scan rooted at each one. The
// filesystem root (a directory that is its own parent) ends the upward walk
// and is not scanned.
func (l *Locator) Locate(startDir, filename string, maxUp, maxDown int) (string, bool) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		start = filepath.Clean(startDir)
	}

	if found, ok := l.searchFrom(start, filename, maxDown); ok {
		return found, true
	}

	current := filepath.Dir(start)
	for visited := 0; visited < maxUp; visited++ {
		if filepath.Dir(current) == current {
			break
		}
		if found, ok := l.searchFrom(current, filename, maxDown); ok {
			return found, true
		}
		current = filepath.Dir(current)
	}

	return "", false
}

// LocateAny tries Locate for each filename in priority order and returns the
// first artifact found.
func (l *Locator) LocateAny(startDir string, filenames []string, maxUp, maxDown int) (string, bool) {
	for _, name := range filenames {
		if found, ok := l.Locate(startDir, name, maxUp, maxDown); ok {
			return found, true
		}
	}
	return "", false
}

func (l *Locator) searchFrom(root, filename string, maxDown int) (string, bool) {
	if l.onRoot != nil {
		l.onRoot(root)
	}
	l.logger.Verbose("searching %s for %s (depth %d)", root, filename, maxDown)

	found, ok := l.walker.Find(root, filename, maxDown)
	if ok {
		l.logger.Verbose("found %s", found)
	}
	return found, ok
}
