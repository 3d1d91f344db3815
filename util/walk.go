package util

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/dendrascience/iocify/internal/logx"
)

// PathEntry is one item produced by Enumerate.
type PathEntry struct {
	Path string // OS path, joined onto the walk root
	Rel  string // slash-separated path relative to the walk root
	Err  error  // set when the entry could not be visited
}

// Enumerate walks root recursively and yields every regular file below it.
//
// Symlinks below root are never followed or yielded, so cycles cannot occur.
// Devices, sockets and pipes are skipped as well. A subdirectory that cannot
// be read produces one entry with Err set and the walk carries on.
//
// The root itself is resolved first, so a symlink naming a directory is
// walked; Path and Rel are still reported against root as given. The root
// must be a readable directory; that is checked before the sequence is
// returned.
func Enumerate(root string) (iter.Seq[PathEntry], error) {
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate %s: %w", root, err)
	}
	if err := checkReadableDir(walkRoot); err != nil {
		return nil, fmt.Errorf("cannot enumerate %s: %w", root, err)
	}

	return func(yield func(PathEntry) bool) {
		filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			rel := relSlash(walkRoot, path)
			entry := PathEntry{Path: filepath.Join(root, filepath.FromSlash(rel)), Rel: rel}
			if err != nil {
				entry.Err = err
				if path == walkRoot {
					entry.Rel = ""
					yield(entry)
					return filepath.SkipAll
				}
				if !yield(entry) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				logx.Log.Debug().Str("path", entry.Path).Msg("skipping symlink")
				return nil
			}
			if !d.Type().IsRegular() {
				logx.Log.Debug().Str("path", entry.Path).Msg("skipping non-regular file")
				return nil
			}
			if !yield(entry) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// checkReadableDir fails unless dir is a directory whose entries can be listed.
func checkReadableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrSourceNotDirectory
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
