package inspect

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// destructiveKeyword matches statements rejected in read-only mode.
var destructiveKeyword = regexp.MustCompile(`(?i)\b(DROP|DELETE|TRUNCATE|ALTER|CREATE|INSERT|UPDATE)\b`)

// rowReturning are the leading keywords whose results are rendered.
var rowReturning = []string{"SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE"}

// QueryOptions configures an ad-hoc query.
type QueryOptions struct {
	SQL      string
	ReadOnly bool
	// Limit caps rendered rows; zero or less means psqlc.DefaultQueryLimit.
	Limit int
}

// CheckReadOnly returns ErrReadOnlyViolation when sql contains a
// destructive keyword.
func CheckReadOnly(sql string) error {
	if kw := destructiveKeyword.FindString(sql); kw != "" {
		return fmt.Errorf("%w: found %s", psqlc.ErrReadOnlyViolation, strings.ToUpper(kw))
	}
	return nil
}

// ReturnsRows reports whether sql is rendered as a result table.
func ReturnsRows(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimLeft(fields[0], "("))
	for _, kw := range rowReturning {
		if first == kw {
			return true
		}
	}
	return false
}

// Query runs opts.SQL against params.Database. Row-returning statements are
// rendered up to the limit; anything else runs through Exec.
func (i *Inspector) Query(ctx context.Context, params psqlc.ResolvedConnection, opts QueryOptions) error {
	sql := strings.TrimSpace(opts.SQL)
	if sql == "" {
		return fmt.Errorf("%w: Query required. Use -q/--query", psqlc.ErrMissingCredentials)
	}
	if opts.ReadOnly {
		if err := CheckReadOnly(sql); err != nil {
			return err
		}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = psqlc.DefaultQueryLimit
	}

	if !ReturnsRows(sql) {
		err := i.run(ctx, params, func(s psqlc.Session) error {
			tag, err := s.Exec(ctx, sql)
			if err != nil {
				return fmt.Errorf("%w: %w", psqlc.ErrExecutionFailed, err)
			}
			i.logger.Verbose("%s", tag.String())
			return nil
		})
		if err != nil {
			return err
		}
		notice(i.out, tui.SuccessStyle, tui.SymbolCheck+" Query executed successfully")
		return nil
	}

	var rs *psqlc.ResultSet
	err := i.run(ctx, params, func(s psqlc.Session) error {
		var qerr error
		rs, qerr = s.Query(ctx, sql)
		if qerr != nil {
			return fmt.Errorf("%w: %w", psqlc.ErrExecutionFailed, qerr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	total := rs.Len()
	if total == 0 {
		notice(i.out, tui.SuccessStyle, tui.SymbolCheck+" Query executed. No rows returned.")
		return nil
	}

	shown := rs.Rows
	if total > limit {
		shown = shown[:limit]
	}
	renderTable(i.out, "Query Results", rs.Columns, stringRows(shown, len(rs.Columns), "NULL"))
	if total > limit {
		notice(i.out, tui.WarningStyle, fmt.Sprintf("Showing %d of %d rows", limit, total))
	}
	return nil
}
