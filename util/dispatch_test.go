package util

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"testing"
)

func dispatchTree(t *testing.T, root string, algo Algorithm, workers int) (*ResultCollection, DispatchStats) {
	t.Helper()
	paths, err := Enumerate(root)
	if err != nil {
		t.Fatal(err)
	}
	results, stats, err := Dispatch(context.Background(), paths, algo, DispatchOptions{Workers: workers})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	return results, stats
}

func TestDispatch_Scenario(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":     "abc",
		"sub/b.txt": "",
	})

	results, stats := dispatchTree(t, root, MD5, 4)

	want := map[string]string{
		"a.txt":     "900150983cd24fb0d6963f7d28e17f72",
		"sub/b.txt": "d41d8cd98f00b204e9800998ecf8427e",
	}
	if got := results.Digests(); !maps.Equal(got, want) {
		t.Errorf("Dispatch() records = %v, want %v", got, want)
	}
	if stats.Hashed != 2 || stats.Failed != 0 || stats.Bytes != 3 {
		t.Errorf("Dispatch() stats = %+v, want 2 hashed, 0 failed, 3 bytes", stats)
	}
}

func TestDispatch_WorkerCountsAgree(t *testing.T) {
	files := make(map[string]string)
	for i := range 300 {
		files[fmt.Sprintf("d%02d/f%03d.txt", i%17, i)] = fmt.Sprintf("content %d", i%50)
	}
	root := writeTree(t, files)

	var baseline map[string]string
	for _, workers := range []int{1, 4, 64} {
		results, stats := dispatchTree(t, root, SHA256, workers)
		if results.Len() != len(files) {
			t.Errorf("workers=%d: %d records, want %d", workers, results.Len(), len(files))
		}
		if stats.Hashed != len(files) {
			t.Errorf("workers=%d: stats.Hashed = %d, want %d", workers, stats.Hashed, len(files))
		}
		got := results.Digests()
		if len(got) != results.Len() {
			t.Errorf("workers=%d: duplicated records", workers)
		}
		if baseline == nil {
			baseline = got
			continue
		}
		if !maps.Equal(got, baseline) {
			t.Errorf("workers=%d: membership differs from workers=1", workers)
		}
	}
}

func TestDispatch_Idempotent(t *testing.T) {
	root := writeTree(t, map[string]string{"x": "1", "y/z": "2", "y/w": "3"})
	first, _ := dispatchTree(t, root, SHA1, 3)
	second, _ := dispatchTree(t, root, SHA1, 3)
	if !maps.Equal(first.Digests(), second.Digests()) {
		t.Errorf("second run %v differs from first %v", second.Digests(), first.Digests())
	}
}

func TestDispatch_InvalidWorkerCount(t *testing.T) {
	called := false
	paths := func(yield func(PathEntry) bool) { called = true }

	for _, workers := range []int{0, -1} {
		_, _, err := Dispatch(context.Background(), paths, MD5, DispatchOptions{Workers: workers})
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("Dispatch(workers=%d) error = %v, want ErrInvalidWorkerCount", workers, err)
		}
	}
	if called {
		t.Error("Dispatch() consumed paths despite an invalid worker count")
	}
}

func TestDispatch_FileErrorsDoNotAbort(t *testing.T) {
	root := writeTree(t, map[string]string{"good1": "a", "good2": "b"})
	missing := filepath.Join(root, "vanished")

	seq := func(yield func(PathEntry) bool) {
		for _, e := range []PathEntry{
			{Path: filepath.Join(root, "good1"), Rel: "good1"},
			{Path: missing, Rel: "vanished"},
			{Path: filepath.Join(root, "unlisted"), Rel: "unlisted", Err: os.ErrPermission},
			{Path: filepath.Join(root, "good2"), Rel: "good2"},
		} {
			if !yield(e) {
				return
			}
		}
	}

	results, stats, err := Dispatch(context.Background(), seq, MD5, DispatchOptions{Workers: 2})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if results.Len() != 2 {
		t.Errorf("Dispatch() records = %d, want 2", results.Len())
	}
	if stats.Failed != 2 || len(stats.Errors) != 2 {
		t.Fatalf("Dispatch() stats = %+v, want 2 failures", stats)
	}
	kinds := map[string]FileErrorKind{}
	for _, fe := range stats.Errors {
		kinds[fe.Path] = fe.Kind
	}
	if kinds[missing] != KindNotFound {
		t.Errorf("vanished file kind = %v, want %v", kinds[missing], KindNotFound)
	}
	if k := kinds[filepath.Join(root, "unlisted")]; k != KindPermissionDenied {
		t.Errorf("unreadable entry kind = %v, want %v", k, KindPermissionDenied)
	}
}

func TestDispatch_Absolute(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "abc"})
	paths, _ := Enumerate(root)
	results, _, err := Dispatch(context.Background(), paths, MD5, DispatchOptions{Workers: 1, Absolute: true})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(filepath.Join(root, "a.txt"))
	for r := range results.Iterate {
		if r.Path != want {
			t.Errorf("record path = %q, want %q", r.Path, want)
		}
	}
}

func endless(root string) iter.Seq[PathEntry] {
	return func(yield func(PathEntry) bool) {
		for {
			if !yield(PathEntry{Path: filepath.Join(root, "a.txt"), Rel: "a.txt"}) {
				return
			}
		}
	}
}

func TestDispatch_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "abc"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Dispatch(ctx, endless(root), MD5, DispatchOptions{Workers: 4})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Dispatch() error = %v, want context.Canceled", err)
	}
}

func TestDispatch_CancelMidRun(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "abc"})

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	seq := func(yield func(PathEntry) bool) {
		for e := range endless(root) {
			count++
			if count == 100 {
				cancel()
			}
			if !yield(e) {
				return
			}
		}
	}

	results, _, err := Dispatch(ctx, seq, MD5, DispatchOptions{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Dispatch() error = %v, want context.Canceled", err)
	}
	if results == nil || results.Len() == 0 {
		t.Error("Dispatch() returned no partial results")
	}
}
