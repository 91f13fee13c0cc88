package inspect

import (
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/psqlc/internal/tui"
)

// renderTable writes title followed by a bordered table.
func renderTable(w io.Writer, title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.ColorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderCellStyle
			}
			return tui.CellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(w, tui.TitleStyle.Render(title))
	fmt.Fprintln(w, t.String())
}

// cell formats a column value, using missing for NULL.
func cell(v any, missing string) string {
	switch x := v.(type) {
	case nil:
		return missing
	case string:
		if x == "" {
			return missing
		}
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case netip.Prefix:
		if x.IsSingleIP() {
			return x.Addr().String()
		}
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}

// stringRows formats every value of rows, keeping the first n columns.
func stringRows(rows [][]any, n int, missing string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, n)
		for i := 0; i < n && i < len(r); i++ {
			line = append(line, cell(r[i], missing))
		}
		out = append(out, line)
	}
	return out
}

// toInt64 converts integer column values; other types count as zero.
func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	default:
		return 0
	}
}

func formatGB(bytes int64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/(1<<30))
}

func notice(w io.Writer, style lipgloss.Style, msg string) {
	fmt.Fprintln(w, style.Render(strings.TrimSpace(msg)))
}
