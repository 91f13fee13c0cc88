package settings

import "strings"

var brands = []string{"POSTGRESQL", "POSTGRES", "POSTGRE"}

// brandKeys expands every brand with every suffix, upper case first and then
// the same keys lowercased.
func brandKeys(suffixes ...string) []string {
	var upper []string
	for _, b := range brands {
		for _, s := range suffixes {
			upper = append(upper, b+s)
		}
	}
	keys := append([]string(nil), upper...)
	for _, k := range upper {
		keys = append(keys, strings.ToLower(k))
	}
	return keys
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Framework (DATABASES entry) aliases.
var (
	frameworkUserKeys     = []string{"USER", "USERNAME", "user", "username"}
	frameworkPasswordKeys = []string{"PASSWORD", "PASS", "password", "pass"}
	frameworkDatabaseKeys = []string{"NAME", "DB", "DB_NAME", "DBNAME", "name", "db", "db_name", "dbname"}
	frameworkHostKeys     = []string{"HOST", "HOSTNAME", "SERVER", "host", "hostname", "server"}
	frameworkPortKeys     = []string{"PORT", "port"}
)

var brandedDatabaseUpper = []string{
	"POSTGRESQL_DATABASE", "POSTGRESQL_DB_NAME", "POSTGRESQL_DBNAME", "POSTGRESQL_DB", "POSTGRESQL_NAME",
	"POSTGRES_DB_NAME", "POSTGRES_DBNAME", "POSTGRES_DB", "POSTGRES_NAME",
	"POSTGRE_DB_NAME", "POSTGRE_DBNAME", "POSTGRE_DB", "POSTGRE_NAME",
	"POSTGRE_DATABASE", "POSTGRES_DATABASE",
}

var brandedDatabaseLower = []string{
	"postgresql_database", "postgres_database", "postgre_database",
	"postgresql_db_name", "postgresql_dbname", "postgresql_db", "postgresql_name",
	"postgres_db_name", "postgres_dbname", "postgres_db", "postgres_name",
	"postgre_db_name", "postgre_dbname", "postgre_db", "postgre_name",
}

// Flat config aliases, most specific first.
var (
	flatUserKeys = concat(
		brandKeys("_USERNAME", "_USER"),
		[]string{"DB_USER", "DB_USERNAME", "db_user", "db_username"},
		[]string{"USER", "USERNAME", "user", "username"},
	)
	flatPasswordKeys = concat(
		brandKeys("_PASSWORD", "_PASS"),
		[]string{"PASSWORD", "PASS", "pass", "password", "db_password", "DB_PASSWORD", "DB_PASS", "db_pass"},
	)
	flatDatabaseKeys = concat(
		brandedDatabaseUpper,
		brandedDatabaseLower,
		[]string{"DB", "DB_NAME", "DBNAME", "db", "db_name", "dbname"},
		[]string{"NAME", "name"},
	)
	flatHostKeys = concat(
		brandKeys("_HOSTNAME", "_HOST"),
		[]string{"db_host", "DB_HOST"},
		[]string{"HOST", "SERVER", "host", "hostname", "server", "HOSTNAME"},
	)
	flatPortKeys = []string{
		"POSTGRESQL_PORT", "POSTGRES_PORT", "POSTGRE_PORT",
		"postgresql_port", "postgres_port", "postgre_port",
		"db_port", "DB_PORT", "PORT", "port",
	}
)

var (
	urlKeys    = []string{"database_url", "DATABASE_URL", "database_uri", "DATABASE_URI"}
	markerKeys = []string{"DATABASE_URL", "DB_URL", "database_url", "db_url", "engine", "ENGINE", "TYPE", "type", "db_type"}

	brandedPortKeys = []string{
		"POSTGRESQL_PORT", "postgresql_port",
		"POSTGRES_PORT", "postgres_port",
		"POSTGRE_PORT", "postgre_port",
	}

	postgresMarkerValues = map[string]bool{
		"django.db.backends.postgresql": true,
		"postgresql":                    true,
		"psql":                          true,
		"postgres":                      true,
		"postgre":                       true,
	}

	postgresEngines = map[string]bool{
		"django.db.backends.postgresql":          true,
		"django.db.backends.postgresql_psycopg2": true,
		"postgresql":                             true,
		"postgres":                               true,
		"postgre":                                true,
	}
)

// firstPresent returns the value of the first alias present in values.
// A present key wins even when its value is empty.
func firstPresent(values map[string]string, aliases []string) (string, bool) {
	for _, key := range aliases {
		if v, ok := values[key]; ok {
			return v, true
		}
	}
	return "", false
}

// isPostgresEngine reports whether a framework ENGINE value names PostgreSQL.
func isPostgresEngine(engine string) bool {
	e := strings.ToLower(strings.TrimSpace(engine))
	return postgresEngines[e] || strings.HasSuffix(e, ".postgresql")
}

// isPostgresMarker reports whether a flat marker value names PostgreSQL.
func isPostgresMarker(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return postgresMarkerValues[v] ||
		strings.HasPrefix(v, "postgres://") ||
		strings.HasPrefix(v, "postgresql://")
}
