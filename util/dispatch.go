package util

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dendrascience/iocify/internal/logx"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// DispatchOptions tunes a Dispatch call.
type DispatchOptions struct {
	Workers   int  // number of concurrent hashers, must be positive
	BlockSize int  // read size per file, DefaultBlockSize when zero
	Absolute  bool // record absolute paths instead of root-relative ones
}

// DispatchStats summarizes a dispatch.
type DispatchStats struct {
	Hashed int
	Failed int
	Bytes  int64
	Errors []*FileError
}

type dispatchState struct {
	mu     sync.Mutex
	hashed int
	bytes  int64
	errors []*FileError
}

func (s *dispatchState) ok(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashed++
	s.bytes += n
}

func (s *dispatchState) fail(fe *FileError) {
	logx.Log.Warn().Str("path", fe.Path).Str("kind", fe.Kind.String()).Err(fe.Err).Msg("skipping file")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, fe)
}

func (s *dispatchState) snapshot() DispatchStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DispatchStats{
		Hashed: s.hashed,
		Failed: len(s.errors),
		Bytes:  s.bytes,
		Errors: append([]*FileError(nil), s.errors...),
	}
}

// Dispatch hashes every entry of paths with algo on a fixed pool of
// opts.Workers goroutines and blocks until all of them are done.
//
// Per-file failures are logged, counted in the returned stats and skipped.
// If ctx is cancelled, no new files are started and the context error is
// returned together with whatever was collected so far.
func Dispatch(ctx context.Context, paths iter.Seq[PathEntry], algo Algorithm, opts DispatchOptions) (*ResultCollection, DispatchStats, error) {
	if opts.Workers <= 0 {
		return nil, DispatchStats{}, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, opts.Workers)
	}

	results := NewResultCollection()
	state := &dispatchState{}
	work := make(chan PathEntry, opts.Workers)
	g, gctx := errgroup.WithContext(ctx)

	// Start walker
	g.Go(func() error {
		defer close(work)
		for entry := range paths {
			select {
			case work <- entry:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Start workers
	for range opts.Workers {
		h := NewHasher(algo, opts.BlockSize)
		g.Go(func() error {
			return hashWorker(gctx, work, h, opts.Absolute, results, state)
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	stats := state.snapshot()
	if err != nil {
		return results, stats, fmt.Errorf("dispatch interrupted: %w", err)
	}
	return results, stats, nil
}

func hashWorker(ctx context.Context, work <-chan PathEntry, h *Hasher, absolute bool, results *ResultCollection, state *dispatchState) error {
	for entry := range work {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Err != nil {
			state.fail(newFileError(entry.Path, entry.Err))
			continue
		}
		digest, n, err := h.HashFile(entry.Path)
		if err != nil {
			state.fail(newFileError(entry.Path, err))
			continue
		}
		results.Add(FileRecord{Path: recordPath(entry, absolute), Digest: digest})
		state.ok(n)
	}
	return nil
}

func recordPath(entry PathEntry, absolute bool) string {
	if absolute {
		if abs, err := filepath.Abs(entry.Path); err == nil {
			return abs
		}
		return entry.Path
	}
	if entry.Rel != "" {
		return entry.Rel
	}
	return filepath.ToSlash(entry.Path)
}
