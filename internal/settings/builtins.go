package settings

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/vvka-141/psqlc/internal/db"
)

// LookupEnvFunc reads a process environment variable.
type LookupEnvFunc func(key string) (string, bool)

// predeclared builds the only names a settings module can reach: read-only
// environment access, path arithmetic and the usual env helper libraries.
func predeclared(settingsPath string, lookup LookupEnvFunc) starlark.StringDict {
	file := filepath.Clean(settingsPath)
	environ := &environMapping{lookup: lookup}

	osModule := &starlarkstruct.Module{
		Name: "os",
		Members: starlark.StringDict{
			"environ": environ,
			"getenv":  starlark.NewBuiltin("os.getenv", environ.get),
			"sep":     starlark.String(string(filepath.Separator)),
			"path": &starlarkstruct.Module{
				Name: "os.path",
				Members: starlark.StringDict{
					"join":     starlark.NewBuiltin("os.path.join", pathJoin),
					"dirname":  starlark.NewBuiltin("os.path.dirname", pathFunc(filepath.Dir)),
					"basename": starlark.NewBuiltin("os.path.basename", pathFunc(filepath.Base)),
					"abspath":  starlark.NewBuiltin("os.path.abspath", pathFunc(absPath)),
					"realpath": starlark.NewBuiltin("os.path.realpath", pathFunc(absPath)),
				},
			},
		},
	}

	return starlark.StringDict{
		"__file__": starlark.String(file),
		"os":       osModule,
		"Path":     starlark.NewBuiltin("Path", newPath),
		"BASE_DIR": pathValue(filepath.Dir(filepath.Dir(absPath(file)))),
		"config":   starlark.NewBuiltin("config", decoupleConfig(lookup)),
		"env":      &envReader{lookup: lookup},
		"dj_database_url": &starlarkstruct.Module{
			Name: "dj_database_url",
			Members: starlark.StringDict{
				"config": starlark.NewBuiltin("dj_database_url.config", djConfig(lookup)),
				"parse":  starlark.NewBuiltin("dj_database_url.parse", djParse),
			},
		},
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// environMapping is os.environ: indexable and offering get().
type environMapping struct {
	lookup LookupEnvFunc
}

var (
	_ starlark.Mapping  = (*environMapping)(nil)
	_ starlark.HasAttrs = (*environMapping)(nil)
)

func (e *environMapping) String() string        { return "environ({...})" }
func (e *environMapping) Type() string          { return "os._Environ" }
func (e *environMapping) Freeze()               {}
func (e *environMapping) Truth() starlark.Bool  { return starlark.True }
func (e *environMapping) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", e.Type()) }

func (e *environMapping) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, ok := starlark.AsString(k)
	if !ok {
		return nil, false, fmt.Errorf("environ key must be a string, got %s", k.Type())
	}
	v, found := e.lookup(key)
	if !found {
		return nil, false, nil
	}
	return starlark.String(v), true, nil
}

func (e *environMapping) Attr(name string) (starlark.Value, error) {
	if name == "get" {
		return starlark.NewBuiltin("os.environ.get", e.get), nil
	}
	return nil, nil
}

func (e *environMapping) AttrNames() []string { return []string{"get"} }

func (e *environMapping) get(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &def); err != nil {
		return nil, err
	}
	if v, ok := e.lookup(key); ok {
		return starlark.String(v), nil
	}
	return def, nil
}

// pathValue is a pathlib.Path supporting `/`, .parent, .name and .resolve().
type pathValue string

var (
	_ starlark.HasBinary = pathValue("")
	_ starlark.HasAttrs  = pathValue("")
)

func (p pathValue) String() string        { return string(p) }
func (p pathValue) Type() string          { return "Path" }
func (p pathValue) Freeze()               {}
func (p pathValue) Truth() starlark.Bool  { return starlark.True }
func (p pathValue) Hash() (uint32, error) { return starlark.String(p).Hash() }

func (p pathValue) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	if op != syntax.SLASH {
		return nil, nil
	}
	other, ok := pathString(y)
	if !ok {
		return nil, nil
	}
	if side == starlark.Left {
		return pathValue(filepath.Join(string(p), other)), nil
	}
	return pathValue(filepath.Join(other, string(p))), nil
}

func (p pathValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "parent":
		return pathValue(filepath.Dir(string(p))), nil
	case "name":
		return starlark.String(filepath.Base(string(p))), nil
	case "resolve", "absolute":
		return starlark.NewBuiltin("Path."+name, func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
			return pathValue(absPath(string(p))), nil
		}), nil
	}
	return nil, nil
}

func (p pathValue) AttrNames() []string {
	return []string{"absolute", "name", "parent", "resolve"}
}

func pathString(v starlark.Value) (string, bool) {
	switch t := v.(type) {
	case pathValue:
		return string(t), true
	case starlark.String:
		return string(t), true
	}
	return "", false
}

func pathArgs(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) ([]string, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}
	parts := make([]string, 0, len(args))
	for i, a := range args {
		s, ok := pathString(a)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: want str or Path, got %s", fn.Name(), i+1, a.Type())
		}
		parts = append(parts, s)
	}
	return parts, nil
}

func newPath(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	parts, err := pathArgs(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return pathValue("."), nil
	}
	return pathValue(filepath.Join(parts...)), nil
}

func pathJoin(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	parts, err := pathArgs(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.String(filepath.Join(parts...)), nil
}

func pathFunc(f func(string) string) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		parts, err := pathArgs(fn, args, kwargs)
		if err != nil {
			return nil, err
		}
		if len(parts) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", fn.Name(), len(parts))
		}
		return starlark.String(f(parts[0])), nil
	}
}

// decoupleConfig implements python-decouple's config(key, default=, cast=).
func decoupleConfig(lookup LookupEnvFunc) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var key string
		var def, cast starlark.Value
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &def, "cast?", &cast); err != nil {
			return nil, err
		}

		var v starlark.Value
		if raw, ok := lookup(key); ok {
			v = starlark.String(raw)
		} else if def != nil {
			v = def
		} else {
			return nil, fmt.Errorf("%s not found. Declare it as envvar or define a default value", key)
		}

		if cast == nil || cast == starlark.None {
			return v, nil
		}
		if b, ok := cast.(*starlark.Builtin); ok && b.Name() == "bool" {
			if s, ok := v.(starlark.String); ok {
				return parseBool(string(s))
			}
		}
		return starlark.Call(thread, cast, starlark.Tuple{v}, nil)
	}
}

func parseBool(s string) (starlark.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on", "t":
		return starlark.True, nil
	case "0", "false", "no", "n", "off", "f", "":
		return starlark.False, nil
	}
	return nil, fmt.Errorf("invalid truth value: %q", s)
}

// envReader is django-environ's Env instance: callable, with typed readers.
type envReader struct {
	lookup LookupEnvFunc
}

var (
	_ starlark.Callable = (*envReader)(nil)
	_ starlark.HasAttrs = (*envReader)(nil)
)

func (e *envReader) String() string        { return "<environ.Env>" }
func (e *envReader) Type() string          { return "Env" }
func (e *envReader) Freeze()               {}
func (e *envReader) Truth() starlark.Bool  { return starlark.True }
func (e *envReader) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", e.Type()) }
func (e *envReader) Name() string          { return "env" }

func (e *envReader) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return e.read("env", "str", args, kwargs)
}

func (e *envReader) Attr(name string) (starlark.Value, error) {
	switch name {
	case "str", "int", "bool":
		return starlark.NewBuiltin("env."+name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return e.read(fn.Name(), name, args, kwargs)
		}), nil
	case "db", "db_url":
		return starlark.NewBuiltin("env."+name, e.dbURL), nil
	}
	return nil, nil
}

func (e *envReader) AttrNames() []string { return []string{"bool", "db", "db_url", "int", "str"} }

func (e *envReader) read(fnName, kind string, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var def starlark.Value
	if err := starlark.UnpackArgs(fnName, args, kwargs, "var", &key, "default?", &def); err != nil {
		return nil, err
	}
	raw, ok := e.lookup(key)
	if !ok {
		if def == nil {
			return nil, fmt.Errorf("set the %s environment variable", key)
		}
		return def, nil
	}
	switch kind {
	case "int":
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return starlark.MakeInt(n), nil
	case "bool":
		return parseBool(raw)
	default:
		return starlark.String(raw), nil
	}
}

func (e *envReader) dbURL(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	key := "DATABASE_URL"
	var def string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "var?", &key, "default?", &def); err != nil {
		return nil, err
	}
	raw, ok := e.lookup(key)
	if !ok {
		raw = def
	}
	return databaseDict(raw)
}

func djConfig(lookup LookupEnvFunc) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		key := "DATABASE_URL"
		var def string
		var ignored starlark.Value
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"default?", &def, "env?", &key,
			"conn_max_age?", &ignored, "conn_health_checks?", &ignored, "ssl_require?", &ignored); err != nil {
			return nil, err
		}
		raw, ok := lookup(key)
		if !ok {
			raw = def
		}
		if raw == "" {
			return starlark.NewDict(0), nil
		}
		return databaseDict(raw)
	}
}

func djParse(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var raw string
	var ignored starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "url", &raw, "conn_max_age?", &ignored, "ssl_require?", &ignored); err != nil {
		return nil, err
	}
	return databaseDict(raw)
}

// databaseDict converts a database URL into a DATABASES entry.
func databaseDict(raw string) (starlark.Value, error) {
	u, err := db.ParseConnectionURL(raw)
	if err != nil {
		return nil, err
	}

	engine := "django.db.backends." + u.Scheme
	if u.IsPostgres() {
		engine = "django.db.backends.postgresql"
	}

	d := starlark.NewDict(6)
	entries := []struct {
		key string
		val starlark.Value
	}{
		{"ENGINE", starlark.String(engine)},
		{"NAME", starlark.String(u.Database)},
		{"USER", starlark.String(u.Username)},
		{"PASSWORD", starlark.String(u.Password)},
		{"HOST", starlark.String(u.Host)},
		{"PORT", starlark.String("")},
	}
	if u.Port != 0 {
		entries[5].val = starlark.MakeInt(u.Port)
	}
	for _, e := range entries {
		if err := d.SetKey(starlark.String(e.key), e.val); err != nil {
			return nil, err
		}
	}
	return d, nil
}
