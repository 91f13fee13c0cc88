package inspect

const (
	queryDatabases = `
		SELECT datname AS database,
		       pg_size_pretty(pg_database_size(datname)) AS size,
		       pg_encoding_to_char(encoding) AS encoding,
		       datcollate AS collation
		FROM pg_database
		WHERE datistemplate = false
		ORDER BY datname`

	queryTables = `
		SELECT schemaname AS schema,
		       tablename AS table,
		       pg_size_pretty(pg_total_relation_size(quote_ident(schemaname) || '.' || quote_ident(tablename))) AS size,
		       (SELECT COUNT(*) FROM information_schema.columns
		        WHERE table_schema = schemaname AND table_name = tablename) AS columns
		FROM pg_tables
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY schemaname, tablename`

	queryUsers = `
		SELECT rolname AS username,
		       rolsuper AS superuser,
		       rolcreatedb AS create_db,
		       rolcreaterole AS create_role,
		       rolcanlogin AS can_login,
		       rolreplication AS replication
		FROM pg_roles
		WHERE rolname NOT LIKE 'pg_%'
		ORDER BY rolname`

	queryConnections = `
		SELECT datname AS database,
		       usename AS username,
		       client_addr AS client,
		       state,
		       query_start,
		       state_change
		FROM pg_stat_activity
		WHERE datname IS NOT NULL
		ORDER BY query_start DESC NULLS LAST`

	queryTableIndexes = `
		SELECT indexname AS index_name, indexdef AS definition
		FROM pg_indexes
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		  AND tablename = $1
		ORDER BY indexname`

	queryAllIndexes = `
		SELECT schemaname AS schema, tablename AS table,
		       indexname AS index_name, indexdef AS definition
		FROM pg_indexes
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY schemaname, tablename, indexname`

	queryDatabaseSizes = `
		SELECT datname AS database,
		       pg_size_pretty(pg_database_size(datname)) AS size,
		       pg_database_size(datname) AS size_bytes
		FROM pg_database
		WHERE datistemplate = false
		ORDER BY pg_database_size(datname) DESC`

	queryTableSizes = `
		SELECT schemaname AS schema, tablename AS table,
		       pg_size_pretty(pg_total_relation_size(quote_ident(schemaname) || '.' || quote_ident(tablename))) AS total_size,
		       pg_total_relation_size(quote_ident(schemaname) || '.' || quote_ident(tablename)) AS size_bytes
		FROM pg_tables
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY size_bytes DESC`

	// to_regclass returns NULL for unknown tables instead of raising.
	querySingleTableSize = `
		SELECT pg_size_pretty(pg_total_relation_size(to_regclass($1))) AS total_size,
		       pg_size_pretty(pg_relation_size(to_regclass($1))) AS table_size,
		       pg_size_pretty(pg_total_relation_size(to_regclass($1)) - pg_relation_size(to_regclass($1))) AS indexes_size
		WHERE to_regclass($1) IS NOT NULL`

	queryDescribe = `
		SELECT column_name, data_type, character_maximum_length,
		       is_nullable, column_default
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`
)
