package psqlc

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, parameters or missing credentials
	ExitConnectionError = 11 // Failed to connect or authenticate
	ExitOperatorAborted = 12 // Operator declined a confirmation or password prompt
	ExitExecutionFailed = 13 // SQL execution failed
)

const (
	// DefaultHost is the PostgreSQL server address used when nothing else supplies one.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the PostgreSQL server port used when nothing else supplies one.
	DefaultPort = 5432

	// DefaultSuperuser is the administrative identity used for privileged operations.
	DefaultSuperuser = "postgres"

	// DefaultManagementDB is the maintenance database administrative sessions connect to.
	DefaultManagementDB = "postgres"

	// DefaultBootstrapDB is the database a newly created user connects to
	// while checking for and creating its own database.
	DefaultBootstrapDB = "template1"

	// DefaultUpLevel disables the upward settings search unless requested.
	DefaultUpLevel = 0

	// DefaultDownLevel searches the start directory and its immediate children.
	DefaultDownLevel = 1

	// DefaultConnectTimeout bounds the initial connection attempt only.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultForceApprovalCountdown is the countdown before a --force drop proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultQueryLimit is the number of rows rendered by the query command.
	DefaultQueryLimit = 100

	// DefaultRetryInitialDelay is the initial delay before retrying a transient connect failure.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay is the maximum delay between connect retries.
	DefaultRetryMaxDelay = 5 * time.Second

	// DefaultRetryMaxAttempts is the number of connect retries after the first attempt.
	DefaultRetryMaxAttempts = 2

	// ApplicationNamePrefix prefixes the application_name reported to the server.
	ApplicationNamePrefix = "psqlc"
)
