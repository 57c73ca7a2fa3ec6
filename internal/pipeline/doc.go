// Package pipeline runs a cleaning recipe against a data folder.
//
// A run resolves the newest input table in the recipe's input area, applies
// each configured step in order (each logged with its description and the
// table shape before and after), and writes the result to the output area
// as a timestamped table, optionally alongside a rolling "_latest" copy.
// Cancellation is checked between steps.
//
// Files: runner.go (Run and summary logging), steps.go (op registry),
// discover.go (input candidates), stats.go (RunStats).
package pipeline
