package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

const backupTimestampLayout = "20060102_150405"

// BackupFileName returns <db>_backup_<YYYYmmdd_HHMMSS>.sql for the
// inspector's clock.
func (i *Inspector) BackupFileName(dbName string) string {
	return fmt.Sprintf("%s_backup_%s.sql", dbName, i.now().Format(backupTimestampLayout))
}

// BackupCommand returns the pg_dump invocation for params.Database.
func (i *Inspector) BackupCommand(params psqlc.ResolvedConnection) string {
	return strings.Join([]string{
		"pg_dump",
		"-h", params.Host,
		"-p", strconv.Itoa(params.Port),
		"-U", params.User,
		"-d", params.Database,
		"-F", "p",
		"-f", i.BackupFileName(params.Database),
	}, " ")
}

// Backup prints the pg_dump command for params.Database. The command is
// never executed.
func (i *Inspector) Backup(params psqlc.ResolvedConnection) error {
	if params.Database == "" {
		return fmt.Errorf("%w: Database name required. Use -d/--database", psqlc.ErrMissingCredentials)
	}
	notice(i.out, tui.TitleStyle, fmt.Sprintf("Creating backup of '%s'...", params.Database))
	notice(i.out, tui.WarningStyle, "Run this command manually:")
	fmt.Fprintf(i.out, "   %s\n", tui.SuccessStyle.Render(i.BackupCommand(params)))
	return nil
}
