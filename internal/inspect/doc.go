// Package inspect implements the read-mostly commands of psqlc: listing
// databases, tables, roles, connections, indexes and sizes, describing a
// table, running ad-hoc SQL and printing a pg_dump command line.
//
// Every command runs through a Runner so a permission failure is retried
// once with an elevated password. Results are rendered as lipgloss tables.
package inspect
