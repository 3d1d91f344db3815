// Package cmd provides the command-line interface implementation for iocify.
//
// The root command hashes a directory tree into a CSV report. Subcommands:
//   - verify: re-hash the files of an existing report and report drift
//   - count: count the files a run would visit
//   - version: print build information
//
// Each command is built by its own constructor returning a *cobra.Command;
// main executes the root through fang.
package cmd
