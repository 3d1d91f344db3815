package util

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
)

// Report is a parsed report file.
type Report struct {
	Algorithm Algorithm
	Records   []FileRecord
}

// ReadReport parses a report written by WriteReport. The algorithm is taken
// from the header.
func ReadReport(path string, delimiter rune) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Report{}, fmt.Errorf("%w: %s is empty", ErrMalformedReport, path)
	}
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	if header[0] != PathColumn {
		return Report{}, fmt.Errorf("%w: first column is %q, expected %q", ErrMalformedReport, header[0], PathColumn)
	}
	algo, err := ParseAlgorithm(header[1])
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}

	report := Report{Algorithm: algo}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("%w: %w", ErrMalformedReport, err)
		}
		report.Records = append(report.Records, FileRecord{Path: row[0], Digest: row[1]})
	}
	return report, nil
}

// VerifyResult is the outcome of re-hashing a report.
type VerifyResult struct {
	Matched    int
	Mismatched []FileRecord // records carrying the digest found on disk
	Missing    []*FileError
}

// OK reports whether every file still matches.
func (v VerifyResult) OK() bool {
	return len(v.Mismatched) == 0 && len(v.Missing) == 0
}

// Verify re-hashes every file listed in report, resolving relative paths
// against root, and compares the digests.
func Verify(ctx context.Context, report Report, root string, workers int) (VerifyResult, error) {
	results, stats, err := Dispatch(ctx, reportEntries(report, root), report.Algorithm, DispatchOptions{Workers: workers})
	if err != nil {
		return VerifyResult{}, err
	}

	got := results.Digests()
	res := VerifyResult{Missing: stats.Errors}
	for _, want := range report.Records {
		digest, ok := got[want.Path]
		if !ok {
			continue
		}
		if digest == want.Digest {
			res.Matched++
			continue
		}
		res.Mismatched = append(res.Mismatched, FileRecord{Path: want.Path, Digest: digest})
	}
	return res, nil
}

func reportEntries(report Report, root string) iter.Seq[PathEntry] {
	return func(yield func(PathEntry) bool) {
		for _, r := range report.Records {
			p := filepath.FromSlash(r.Path)
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			if !yield(PathEntry{Path: p, Rel: r.Path}) {
				return
			}
		}
	}
}
