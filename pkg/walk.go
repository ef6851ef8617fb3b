package treeutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/conc"
)

// ErrorSink receives per-entry failures that exclude one file or directory
// without stopping the rest of the run
type ErrorSink interface {
	Warn(path string, err error)
}

// WriterSink prints "[WARN] path: err" lines to a writer
type WriterSink struct {
	mu  sync.Mutex
	Out io.Writer
}

// NewStderrSink returns the default sink
func NewStderrSink() *WriterSink {
	return &WriterSink{Out: os.Stderr}
}

// Warn implements ErrorSink
func (s *WriterSink) Warn(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.Out, FormatWarning(path, err))
}

// FormatWarning renders one tagged warning line
func FormatWarning(path string, err error) string {
	return fmt.Sprintf("[WARN] %s: %v", path, err)
}

// Walker enumerates regular files below one or more roots. Every directory
// is listed on its own goroutine so siblings and roots are traversed
// concurrently with no fixed limit.
type Walker struct {
	Excluder     *Excluder
	IncludeEmpty bool
	Sink         ErrorSink
	Progress     *Progress
}

// Walk calls submit once per regular file with its size and returns after
// every directory under every root has been listed. submit is called from
// many goroutines at once.
func (w *Walker) Walk(roots []string, submit func(path string, size int64)) {
	defer VerboseEnter()()

	var wg conc.WaitGroup
	for _, root := range roots {
		wg.Go(func() { w.walkDir(&wg, root, root, submit) })
	}
	wg.Wait()

	if w.Progress != nil {
		w.Progress.markWalkDone()
	}
}

func (w *Walker) walkDir(wg *conc.WaitGroup, root, dir string, submit func(string, int64)) {
	DebugLog(DebugWalk, "listing %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.warn(dir, err)
		return
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		// ReadDir's type bits are not reliable on every filesystem, so each
		// entry gets its own link-aware stat.
		info, err := os.Lstat(full)
		if err != nil {
			w.warn(full, err)
			continue
		}

		mode := info.Mode()
		switch {
		case mode&os.ModeSymlink != 0:
			DebugLog(DebugWalk, "skipping symlink %s", full)
		case mode.IsDir():
			if w.excluded(root, full, true) {
				continue
			}
			wg.Go(func() { w.walkDir(wg, root, full, submit) })
		case mode.IsRegular():
			if w.excluded(root, full, false) {
				continue
			}
			size := info.Size()
			if size == 0 && !w.IncludeEmpty {
				continue
			}
			if w.Progress != nil {
				w.Progress.addDiscovered(size)
			}
			submit(full, size)
		default:
			DebugLog(DebugWalk, "skipping special file %s", full)
		}
	}
}

func (w *Walker) excluded(root, full string, isDir bool) bool {
	if w.Excluder == nil {
		return false
	}
	rel := SplitRelative(root, full).String()
	if w.Excluder.ShouldIgnore(rel, isDir) {
		VerboseLog(2, "excluding %s", full)
		return true
	}
	return false
}

func (w *Walker) warn(path string, err error) {
	if w.Sink != nil {
		w.Sink.Warn(path, err)
	}
}
