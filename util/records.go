package util

import (
	"cmp"
	"slices"
	"sync"
)

type (
	// FileRecord is the digest of one file.
	FileRecord struct {
		Path   string `json:"path"`   // path as written to the report
		Digest string `json:"digest"` // lowercase hex digest
	}
	// ResultCollection accumulates FileRecords from concurrent workers.
	// Appends are serialized; reads are meant for after the dispatch barrier.
	ResultCollection struct {
		mu      sync.Mutex
		entries []FileRecord
		sorted  bool
	}
)

// NewResultCollection returns an empty collection.
func NewResultCollection() *ResultCollection {
	return &ResultCollection{entries: []FileRecord{}}
}

func (c *ResultCollection) Add(r FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sorted = false
	c.entries = append(c.entries, r)
}

func (c *ResultCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sort orders the records by path.
func (c *ResultCollection) Sort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sorted {
		return
	}
	slices.SortFunc(c.entries, func(a, b FileRecord) int {
		return cmp.Compare(a.Path, b.Path)
	})
	c.sorted = true
}

// Iterate yields the records in their current order.
func (c *ResultCollection) Iterate(yield func(FileRecord) bool) {
	for _, r := range c.Records() {
		if !yield(r) {
			return
		}
	}
}

// Records returns a copy of the records.
func (c *ResultCollection) Records() []FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Digests maps each path to its digest.
func (c *ResultCollection) Digests() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := make(map[string]string, len(c.entries))
	for _, r := range c.entries {
		m[r.Path] = r.Digest
	}
	return m
}
