package settings

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

const maxEvalSteps = 1_000_000

// evalSettings evaluates the top-level assignments of a settings module and
// returns the resulting globals. Assignments that fail to evaluate are
// skipped; later assignments still see every earlier success.
func evalSettings(path string, src []byte, lookup LookupEnvFunc, logger psqlc.Logger) starlark.StringDict {
	env := predeclared(path, lookup)
	thread := &starlark.Thread{
		Name:  "settings",
		Print: func(*starlark.Thread, string) {},
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			return nil, fmt.Errorf("load %q: not allowed", module)
		},
	}
	thread.SetMaxExecutionSteps(maxEvalSteps)

	globals := starlark.StringDict{}
	for _, stmt := range splitTopLevel(string(src)) {
		name, expr, ok := parseAssignment(stmt)
		if !ok {
			continue
		}
		v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, path, expr, env)
		if err != nil {
			logger.Verbose("%s: skipping %s: %v", path, name, err)
			continue
		}
		env[name] = v
		globals[name] = v
	}
	return globals
}

// extractFramework finds the first PostgreSQL entry of DATABASES.
func extractFramework(path string, src []byte, lookup LookupEnvFunc, logger psqlc.Logger) *psqlc.CredentialRecord {
	globals := evalSettings(path, src, lookup, logger)

	raw, ok := globals["DATABASES"]
	if !ok {
		logger.Warn("%s: no DATABASES setting found", path)
		return nil
	}
	databases, ok := raw.(*starlark.Dict)
	if !ok {
		logger.Warn("%s: DATABASES is a %s, not a dict", path, raw.Type())
		return nil
	}

	var engines []string
	for _, item := range databases.Items() {
		entry, ok := item[1].(*starlark.Dict)
		if !ok {
			continue
		}
		values := dictStrings(entry)
		engine := values["ENGINE"]
		if !isPostgresEngine(engine) {
			engines = append(engines, fmt.Sprintf("%s=%q", starlarkString(item[0]), engine))
			continue
		}

		rec := &psqlc.CredentialRecord{Source: path}
		rec.Username, _ = firstPresent(values, frameworkUserKeys)
		rec.Password, _ = firstPresent(values, frameworkPasswordKeys)
		rec.Database, _ = firstPresent(values, frameworkDatabaseKeys)
		rec.Host, _ = firstPresent(values, frameworkHostKeys)
		if port, ok := firstPresent(values, frameworkPortKeys); ok {
			rec.Port = parsePort(port, path, logger)
		}
		return rec
	}

	logger.Warn("%s: settings found but no DATABASES entry uses PostgreSQL (%s)", path, strings.Join(engines, ", "))
	return nil
}

// dictStrings keeps the scalar entries of d. None values are treated as
// absent keys.
func dictStrings(d *starlark.Dict) map[string]string {
	out := make(map[string]string, d.Len())
	for _, item := range d.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			continue
		}
		switch v := item[1].(type) {
		case starlark.NoneType:
		case starlark.String:
			out[key] = string(v)
		case starlark.Int, starlark.Bool, starlark.Float, pathValue:
			out[key] = v.String()
		}
	}
	return out
}

func starlarkString(v starlark.Value) string {
	if s, ok := starlark.AsString(v); ok {
		return s
	}
	return v.String()
}
