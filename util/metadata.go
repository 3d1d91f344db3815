package util

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dendrascience/iocify/version"
)

// RunSummary describes one hashing run. It is written next to the report
// when a summary path is configured.
type RunSummary struct {
	Version     version.Info `json:"version"`
	RunID       string       `json:"run_id"`
	Algorithm   Algorithm    `json:"algorithm"`
	Source      string       `json:"source"`
	Output      string       `json:"output"`
	Workers     int          `json:"workers"`
	FilesHashed int          `json:"files_hashed"`
	FilesFailed int          `json:"files_failed"`
	BytesHashed int64        `json:"bytes_hashed"`
	Failures    []string     `json:"failures,omitempty"`
	Started     time.Time    `json:"started"`
	Finished    time.Time    `json:"finished"`
}

// NewRunSummary fills a summary from the dispatch statistics.
func NewRunSummary(runID string, algo Algorithm, source, output string, workers int, stats DispatchStats) RunSummary {
	s := RunSummary{
		Version:     version.GetInfo(),
		RunID:       runID,
		Algorithm:   algo,
		Source:      source,
		Output:      output,
		Workers:     workers,
		FilesHashed: stats.Hashed,
		FilesFailed: stats.Failed,
		BytesHashed: stats.Bytes,
	}
	for _, fe := range stats.Errors {
		s.Failures = append(s.Failures, fe.Error())
	}
	return s
}

// Save writes the summary as JSON to path.
func (s RunSummary) Save(path string) error {
	return WriteJSONFile(path, s)
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	je := json.NewEncoder(f)
	je.SetIndent("", "  ")
	return je.Encode(v)
}
