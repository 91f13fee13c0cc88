// Package settings turns a located configuration artifact into a
// psqlc.CredentialRecord.
//
// Two artifact shapes are understood. Framework settings modules
// (settings.py) are never executed: their top-level NAME = expr assignments
// are evaluated one by one with Starlark in an environment that can only
// read environment variables and manipulate paths, and the first PostgreSQL
// entry of DATABASES is used. Flat key/value files (.env, JSON, YAML, TOML)
// are read with an URL strategy first and an alias matrix second.
//
// A Resolver runs the search and the extraction once and memoizes the
// result, including the "nothing found" outcome:
//
//	r := settings.NewResolver(settings.Options{MaxUp: 1, MaxDown: 2, Logger: logger})
//	rec := r.Resolve(ctx) // nil when no usable artifact exists
package settings
