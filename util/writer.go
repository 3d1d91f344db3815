package util

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ReportExt is the extension every report carries.
const ReportExt = ".csv"

// PathColumn is the header of the path column.
const PathColumn = "filename"

// NormalizeOutputPath appends ReportExt unless path already ends with it.
func NormalizeOutputPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ReportExt) {
		return path
	}
	return path + ReportExt
}

// WriteReport writes records to outputPath as a delimited file with a
// "filename,<algo>" header, one row per record sorted by path. The written
// path (after extension normalization) is returned.
func WriteReport(records *ResultCollection, outputPath string, delimiter rune, algo Algorithm) (string, error) {
	outputPath = NormalizeOutputPath(outputPath)
	f, err := os.Create(outputPath)
	if err != nil {
		return outputPath, fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = delimiter
	if err := w.Write([]string{PathColumn, algo.String()}); err != nil {
		return outputPath, fmt.Errorf("failed to write header to %s: %w", outputPath, err)
	}
	records.Sort()
	for r := range records.Iterate {
		if err := w.Write([]string{r.Path, r.Digest}); err != nil {
			return outputPath, fmt.Errorf("failed to write row for %s: %w", r.Path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return outputPath, fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	if err := f.Close(); err != nil {
		return outputPath, fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	return outputPath, nil
}
