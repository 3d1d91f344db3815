// Package main provides the iocify command-line interface.
//
// iocify walks a directory tree, hashes every regular file with MD5, SHA-1 or
// SHA-256 on a fixed pool of workers, and writes one "filename,digest" row per
// file to a CSV report. Typical use is building indicator-of-compromise lists
// or integrity baselines for evidence directories.
//
// Subcommands:
//   - verify: re-hash the files listed in a report and flag changes
//   - count: count the files a run would hash
package main
