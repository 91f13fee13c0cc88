package inspect

import (
	"context"
	"fmt"

	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// ShowDatabases lists non-template databases.
func (i *Inspector) ShowDatabases(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryDatabases)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, "No databases found")
		return nil
	}
	renderTable(i.out, "PostgreSQL Databases",
		[]string{"Database", "Size", "Encoding", "Collation"},
		stringRows(rs.Rows, 4, "-"))
	return nil
}

// ShowTables lists user tables of params.Database.
func (i *Inspector) ShowTables(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryTables)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, fmt.Sprintf("No tables found in '%s'", params.Database))
		return nil
	}
	renderTable(i.out, fmt.Sprintf("Tables in '%s'", params.Database),
		[]string{"Schema", "Table", "Size", "Columns"},
		stringRows(rs.Rows, 4, "-"))
	return nil
}

// ShowUsers lists roles, hiding the built-in pg_ roles.
func (i *Inspector) ShowUsers(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryUsers)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, "No users found")
		return nil
	}
	renderTable(i.out, "PostgreSQL Users",
		[]string{"Username", "Superuser", "Create DB", "Create Role", "Can Login", "Replication"},
		stringRows(rs.Rows, 6, "-"))
	return nil
}

// ShowConnections lists backends attached to a database.
func (i *Inspector) ShowConnections(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryConnections)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, "No active connections")
		return nil
	}
	renderTable(i.out, "Active Connections",
		[]string{"Database", "User", "Client", "State", "Query Start", "State Change"},
		stringRows(rs.Rows, 6, "-"))
	return nil
}

// ShowIndexes lists indexes of params.Database, or of table when given.
func (i *Inspector) ShowIndexes(ctx context.Context, params psqlc.ResolvedConnection, table string) error {
	var (
		rs      *psqlc.ResultSet
		err     error
		title   string
		headers []string
	)
	if table != "" {
		rs, err = i.fetch(ctx, params, queryTableIndexes, table)
		title = fmt.Sprintf("Indexes in table '%s'", table)
		headers = []string{"Index Name", "Definition"}
	} else {
		rs, err = i.fetch(ctx, params, queryAllIndexes)
		title = fmt.Sprintf("Indexes in database '%s'", params.Database)
		headers = []string{"Schema", "Table", "Index Name", "Definition"}
	}
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, "No indexes found")
		return nil
	}
	renderTable(i.out, title, headers, stringRows(rs.Rows, len(headers), "-"))
	return nil
}

// ShowDatabaseSizes lists every database by size with a grand total.
func (i *Inspector) ShowDatabaseSizes(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryDatabaseSizes)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, "No databases found")
		return nil
	}
	renderTable(i.out, "Database Sizes", []string{"Database", "Size"}, stringRows(rs.Rows, 2, "-"))
	notice(i.out, tui.TitleStyle, "Total Size: "+formatGB(sumColumn(rs, 2)))
	return nil
}

// ShowTableSizes lists the tables of params.Database by total size.
func (i *Inspector) ShowTableSizes(ctx context.Context, params psqlc.ResolvedConnection) error {
	rs, err := i.fetch(ctx, params, queryTableSizes)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.WarningStyle, fmt.Sprintf("No tables found in '%s'", params.Database))
		return nil
	}
	renderTable(i.out, fmt.Sprintf("Table Sizes in '%s'", params.Database),
		[]string{"Schema", "Table", "Total Size"},
		stringRows(rs.Rows, 3, "-"))
	notice(i.out, tui.TitleStyle, "Total Size: "+formatGB(sumColumn(rs, 3)))
	return nil
}

// ShowTableSize prints total, heap and index size of one table.
func (i *Inspector) ShowTableSize(ctx context.Context, params psqlc.ResolvedConnection, table string) error {
	rs, err := i.fetch(ctx, params, querySingleTableSize, table)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.ErrorStyle, fmt.Sprintf("Table '%s' not found", table))
		return nil
	}
	row := rs.Rows[0]
	renderTable(i.out, fmt.Sprintf("Size of table '%s'", table),
		[]string{"Total Size", "Table Size", "Indexes Size"},
		[][]string{{cell(row[0], "-"), cell(row[1], "-"), cell(row[2], "-")}})
	return nil
}

// Describe lists the columns of table.
func (i *Inspector) Describe(ctx context.Context, params psqlc.ResolvedConnection, table string) error {
	if table == "" {
		return fmt.Errorf("%w: Table name required. Use -t/--table", psqlc.ErrMissingCredentials)
	}
	rs, err := i.fetch(ctx, params, queryDescribe, table)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		notice(i.out, tui.ErrorStyle, fmt.Sprintf("Table '%s' not found", table))
		return nil
	}
	renderTable(i.out, fmt.Sprintf("Structure of '%s'", table),
		[]string{"Column", "Type", "Max Length", "Nullable", "Default"},
		stringRows(rs.Rows, 5, "-"))
	return nil
}

func sumColumn(rs *psqlc.ResultSet, col int) int64 {
	var total int64
	for _, r := range rs.Rows {
		if col < len(r) {
			total += toInt64(r[col])
		}
	}
	return total
}
