// Package filesystem provides the read-only filesystem abstraction used to
// locate and read configuration artifacts.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for tests, with support for
//     simulated permission errors and an operation counter
package filesystem
