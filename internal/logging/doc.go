// Package logging provides concrete implementations of the datahub.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr (or any io.Writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// Progress of a fetch or load run is logged here; the final result line of a
// command is printed to stdout by the CLI, never through a Logger.
package logging
