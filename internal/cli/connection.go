package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/config"
	"github.com/vvka-141/psqlc/internal/db"
	"github.com/vvka-141/psqlc/internal/logging"
	"github.com/vvka-141/psqlc/internal/settings"
	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/internal/ui"
	"github.com/vvka-141/psqlc/internal/workflow"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// DebugEnvVar enables the debug log without --debug.
const DebugEnvVar = "PSQLC_DEBUG"

// runtimeOptions describes what a command needs from the shared setup.
type runtimeOptions struct {
	// command is the top-level command name, used to decide on the
	// superuser password bootstrap.
	command string

	// database is the -d/--database value of the command, if it has one.
	database    string
	databaseSet bool

	// noSearch disables the upward and downward settings search.
	noSearch bool
}

// commandRuntime carries everything one command invocation resolved.
type commandRuntime struct {
	runID    string
	logger   psqlc.Logger
	syncLogs func()

	artifact psqlc.SearchArtifact
	found    bool
	record   *psqlc.CredentialRecord
	params   psqlc.ResolvedConnection

	connector  psqlc.Connector
	prompter   psqlc.Prompter
	dispatcher *workflow.Dispatcher
}

// newRuntime resolves credentials and builds the collaborators for cmd.
func newRuntime(cmd *cobra.Command, opts runtimeOptions) (*commandRuntime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt := &commandRuntime{runID: uuid.NewString(), syncLogs: func() {}}
	rt.logger = rt.buildLogger(getVerboseFlag(cmd))

	toolCfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", psqlc.ErrInvalidConfig, err)
	}

	up, down := searchBounds(cmd, toolCfg)
	if opts.noSearch {
		up, down = 0, 0
	}

	resolver := settings.NewResolver(settings.Options{
		Path:    explicitConfigPath(),
		MaxUp:   up,
		MaxDown: down,
		Logger:  rt.logger,
	})
	rt.record = resolver.Resolve(ctx)
	rt.artifact, rt.found = resolver.Artifact()
	if rt.found {
		rt.logger.Verbose("Using credentials from %s (%s)", rt.artifact.Path, rt.artifact.Kind)
	} else {
		rt.logger.Verbose("No configuration artifact found (up=%d, down=%d)", up, down)
	}

	// The record names the application user; privileged commands keep the
	// administrative identity from env, flags or defaults.
	record := rt.record
	if record != nil && workflow.RequiresSuperuser(opts.command) {
		admin := *record
		admin.Username = ""
		record = &admin
	}

	env := db.LoadFromEnvironment()
	flags := cmd.Flags()
	cliArgs := &db.CLIArgs{
		Host:        globals.host,
		HostSet:     flags.Changed("hostname"),
		Port:        globals.port,
		PortSet:     flags.Changed("port"),
		User:        globals.user,
		UserSet:     flags.Changed("user"),
		Password:    globals.passwd,
		Database:    opts.database,
		DatabaseSet: opts.databaseSet,
	}
	rt.params, err = db.Merge(record, env, cliArgs, &toolCfg.Server)
	if err != nil {
		return nil, err
	}

	method := toolCfg.Auth.Method
	if flags.Changed("auth") || method == "" {
		method = globals.auth
	}
	rt.params.AuthMethod, err = psqlc.ParseAuthMethod(method)
	if err != nil {
		return nil, err
	}
	rt.params.AppName = applicationName(rt.runID)

	rt.connector = db.NewConnector(db.ConnectorOptions{
		Logger:            rt.logger,
		AWSRegion:         firstNonEmpty(env.AWS_REGION, toolCfg.Auth.AWSRegion),
		AzureTenantID:     firstNonEmpty(env.AZURE_TENANT_ID, toolCfg.Auth.AzureTenantID),
		AzureClientID:     firstNonEmpty(env.AZURE_CLIENT_ID, toolCfg.Auth.AzureClientID),
		AzureClientSecret: env.AZURE_CLIENT_SECRET,
		GoogleInstance:    firstNonEmpty(env.PSQLC_GOOGLE_INSTANCE, toolCfg.Auth.GoogleInstance),
	})

	if tui.IsInteractive() {
		rt.prompter = tui.NewPasswordPrompt()
	} else {
		rt.prompter = ui.NewTerminalPrompter()
	}
	rt.dispatcher = workflow.NewDispatcher(rt.prompter, rt.logger)

	if workflow.RequiresSuperuser(opts.command) {
		rt.params, err = rt.dispatcher.EnsureSuperuserPassword(ctx, rt.params, rt.record)
		if err != nil {
			return nil, err
		}
	}

	rt.logger.Verbose("Connection resolved: %s auth=%s app=%s", rt.params, rt.params.AuthMethod, rt.params.AppName)
	return rt, nil
}

// buildLogger returns the console logger, teed with a zap debug log when
// --debug or $PSQLC_DEBUG is set.
func (rt *commandRuntime) buildLogger(verbose bool) psqlc.Logger {
	debugOn := globals.debug || debugEnabled(os.Getenv(DebugEnvVar))
	console := logging.NewConsoleLogger(verbose || debugOn)
	if !debugOn {
		return console
	}

	path := logging.DefaultDebugLogPath()
	zl, err := logging.NewDebugFileLogger(path, rt.runID)
	if err != nil {
		console.Warn("Debug log disabled: %v", err)
		return console
	}
	rt.syncLogs = func() { _ = zl.Sync() }
	console.Verbose("Debug log: %s (run %s)", path, rt.runID)
	return logging.Tee(console, zl)
}

// close flushes the debug log.
func (rt *commandRuntime) close() {
	rt.syncLogs()
}

// targetDatabase returns the resolved database or the usage error shared by
// every command that needs one.
func (rt *commandRuntime) targetDatabase() (string, error) {
	if rt.params.Database == "" {
		return "", fmt.Errorf("%w: Database name required. Use -d/--database", psqlc.ErrMissingCredentials)
	}
	return rt.params.Database, nil
}

// searchBounds prefers explicit flags, then psqlc.yaml, then flag defaults.
func searchBounds(cmd *cobra.Command, cfg *config.ToolConfig) (int, int) {
	up, down := globals.upLevel, globals.downLevel
	if !cmd.Flags().Changed("up-level") {
		up = cfg.UpLevel(up)
	}
	if !cmd.Flags().Changed("down-level") {
		down = cfg.DownLevel(down)
	}
	return up, down
}

func explicitConfigPath() string {
	return firstNonEmpty(globals.configFile, globals.positionalConfig)
}

// applicationName derives application_name from the run ID.
func applicationName(runID string) string {
	short := strings.ReplaceAll(runID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return psqlc.ApplicationNamePrefix + "-" + short
}

func debugEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "ok", "yes", "on":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
