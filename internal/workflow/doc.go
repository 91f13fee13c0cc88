// Package workflow runs the privileged operations of psqlc: creating a user
// with its database, dropping databases and users, and retrying a command
// once with an elevated password when the server reports a permission error.
//
// Sessions are opened right before the step that needs them and closed on
// every exit path. Destructive operations ask the Approver before any
// database call is made.
package workflow
