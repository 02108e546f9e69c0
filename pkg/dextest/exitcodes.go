// Package dextest provides public constants for external tools that drive
// the dextest harness, such as CI wrappers checking its exit status.
package dextest

// Exit codes returned by the dextest CLI.
const (
	// ExitSuccess indicates every golden file matched, or an update run completed.
	ExitSuccess = 0

	// ExitFailure indicates at least one mismatch or per-test error, or a
	// fatal precondition such as -update without -root.
	ExitFailure = 1

	// ExitUsage indicates the command line could not be parsed.
	ExitUsage = 2
)
