package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vvka-141/psqlc/internal/files/filesystem"
	"github.com/vvka-141/psqlc/internal/locator"
	"github.com/vvka-141/psqlc/internal/logging"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

const (
	FrameworkFileName = "settings.py"
	JSONConfigName    = "config.json"
)

// GenericConfigNames are the fallback artifact names, tried in order.
var GenericConfigNames = []string{".env", ".json", ".yaml", ".yml", ".toml"}

// Options configures a Resolver.
type Options struct {
	// Path is an explicit artifact path. A directory is searched for
	// settings.py inside it. Empty means search from WorkDir.
	Path string

	// WorkDir is the directory searches start from. Defaults to the
	// process working directory.
	WorkDir string

	MaxUp   int
	MaxDown int

	FileSystem filesystem.FileSystemProvider
	Logger     psqlc.Logger
	LookupEnv  LookupEnvFunc
}

// Resolver locates and normalizes the configuration artifact once per
// process. The first Resolve does the work; later calls return the same
// record, or nil when nothing was found.
type Resolver struct {
	opts    Options
	fsys    filesystem.FileSystemProvider
	locator *locator.Locator
	logger  psqlc.Logger
	lookup  LookupEnvFunc

	mu       sync.Mutex
	done     bool
	record   *psqlc.CredentialRecord
	artifact *psqlc.SearchArtifact
}

// NewResolver creates a Resolver. Zero-valued options fall back to the OS
// filesystem, the process environment and a silent logger.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		opts:   opts,
		fsys:   opts.FileSystem,
		logger: opts.Logger,
		lookup: opts.LookupEnv,
	}
	if r.fsys == nil {
		r.fsys = filesystem.NewOSFileSystem()
	}
	if r.logger == nil {
		r.logger = logging.NewNullLogger()
	}
	if r.lookup == nil {
		r.lookup = os.LookupEnv
	}
	if r.opts.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.opts.WorkDir = wd
		} else {
			r.opts.WorkDir = "."
		}
	}
	r.locator = locator.New(r.fsys, locator.WithLogger(r.logger))
	return r
}

// Resolve returns the credential record, resolving it on first use. A nil
// record means no usable artifact was found. Errors are logged, never
// returned. A cancelled context skips resolution without memoizing.
func (r *Resolver) Resolve(ctx context.Context) *psqlc.CredentialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return r.record
	}
	if ctx.Err() != nil {
		return nil
	}

	path, ok := r.findArtifact()
	if ok {
		artifact := psqlc.SearchArtifact{Path: path, Kind: KindOf(path)}
		r.artifact = &artifact
		r.record = r.load(artifact)
	} else {
		r.logger.Verbose("no configuration artifact found from %s", r.opts.WorkDir)
	}
	if r.record != nil {
		r.logger.Verbose("resolved %s", r.record)
	}
	r.done = true
	return r.record
}

// Artifact returns the artifact the record was read from, once resolved.
func (r *Resolver) Artifact() (psqlc.SearchArtifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.artifact == nil {
		return psqlc.SearchArtifact{}, false
	}
	return *r.artifact, true
}

// KindOf classifies an artifact by its file name.
func KindOf(path string) psqlc.ArtifactKind {
	base := filepath.Base(path)
	if base == FrameworkFileName || strings.HasSuffix(base, ".py") {
		return psqlc.ArtifactFrameworkSettings
	}
	return psqlc.ArtifactFlatConfig
}

func (r *Resolver) findArtifact() (string, bool) {
	if r.opts.Path != "" {
		return r.explicitArtifact(r.opts.Path)
	}

	wd := r.opts.WorkDir
	for _, name := range []string{FrameworkFileName, JSONConfigName} {
		if candidate := filepath.Join(wd, name); filesystem.IsFile(r.fsys, candidate) {
			return candidate, true
		}
		if found, ok := r.locator.Locate(wd, name, r.opts.MaxUp, r.opts.MaxDown); ok {
			return found, true
		}
	}
	return r.locator.LocateAny(wd, GenericConfigNames, r.opts.MaxUp, r.opts.MaxDown)
}

func (r *Resolver) explicitArtifact(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.opts.WorkDir, path)
	}
	if filesystem.IsDir(r.fsys, path) {
		path = filepath.Join(path, FrameworkFileName)
	}
	if !filesystem.IsFile(r.fsys, path) {
		r.logger.Warn("config file not found: %s", path)
		return "", false
	}
	return path, true
}

func (r *Resolver) load(artifact psqlc.SearchArtifact) *psqlc.CredentialRecord {
	data, err := r.fsys.ReadFile(artifact.Path)
	if err != nil {
		r.logger.Warn("cannot read %s: %v", artifact.Path, err)
		return nil
	}
	r.logger.Verbose("found %s at %s", artifact.Kind, artifact.Path)

	if artifact.Kind == psqlc.ArtifactFrameworkSettings {
		return extractFramework(artifact.Path, data, r.lookup, r.logger)
	}

	values, err := parseFlat(artifact.Path, data)
	if err != nil {
		r.logger.Warn("skipping malformed config: %v", err)
		return nil
	}
	return extractFlat(values, artifact.Path, r.logger)
}
