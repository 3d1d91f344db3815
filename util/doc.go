// Package util implements the iocify hashing pipeline.
//
// Components, leaves first:
//
// Checksum Engine (hasher.go, algorithm.go):
//   - Algorithm is a closed enum of MD5, SHA1 and SHA256
//   - Hasher streams a file in 1 MiB blocks into the digest state
//
// Path Enumerator (walk.go):
//   - Enumerate lazily yields regular files below a root; symlinks are skipped
//
// Worker Pool Dispatcher (dispatch.go, records.go):
//   - Dispatch fans paths out to a fixed number of goroutines and collects
//     FileRecords in a per-run, mutex-guarded ResultCollection
//   - unreadable files are reported as *FileError and skipped
//
// Result Writer (writer.go, verify.go, metadata.go):
//   - WriteReport writes the collection as a delimited file with a header row
//   - ReadReport and Verify check a tree against an existing report
//   - RunSummary records the statistics of one run as JSON
package util
