// Package logging provides concrete implementations of the psqlc.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes prefixed messages to stderr, optionally styled
//   - ZapLogger: structured debug logging to a file via zap
//   - TeeLogger: fans out to several loggers
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
