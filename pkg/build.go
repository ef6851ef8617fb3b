package treeutils

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
)

// BuildOptions configures one indexing pass
type BuildOptions struct {
	Algorithm    *HashAlgorithm // nil selects DefaultHashAlgorithm
	BufferSize   int            // read chunk size, <= 0 selects DefaultHashBuffer
	Workers      int            // hash workers, <= 0 selects runtime.NumCPU()
	QueueDepth   int            // pending hash jobs before the walker blocks, 0 is unbounded
	IncludeEmpty bool
	Excluder     *Excluder
	Sink         ErrorSink // nil discards per-file warnings
}

// IndexBuilder walks and hashes one or more roots into a single ContentIndex.
// A builder runs once; create a new one for every pass.
type IndexBuilder struct {
	opts     BuildOptions
	progress *Progress
	used     atomic.Bool
}

// NewIndexBuilder resolves defaults and allocates progress counters
func NewIndexBuilder(opts BuildOptions) (*IndexBuilder, error) {
	if opts.Algorithm == nil {
		alg, err := GetHashAlgorithm(DefaultHashAlgorithm)
		if err != nil {
			return nil, err
		}
		opts.Algorithm = alg
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultHashBuffer
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.QueueDepth < 0 {
		return nil, fmt.Errorf("queue depth must not be negative, got: %d", opts.QueueDepth)
	}

	return &IndexBuilder{
		opts:     opts,
		progress: NewProgress(opts.Workers),
	}, nil
}

// Progress exposes the live counters, valid before and during Build
func (b *IndexBuilder) Progress() *Progress {
	return b.progress
}

// Workers returns the resolved hash worker count
func (b *IndexBuilder) Workers() int {
	return b.opts.Workers
}

// Build enumerates every root and hashes every discovered file, returning
// once both are complete. The returned index is frozen.
//
// Shutdown runs in a fixed order: the walk finishes, the queue is closed,
// workers drain what is left and exit, then the index is frozen.
func (b *IndexBuilder) Build(roots ...string) (*ContentIndex, error) {
	defer VerboseEnter()()

	if !b.used.CompareAndSwap(false, true) {
		return nil, errors.New("index builder already used")
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: nothing to index", ErrWrongRootCount)
	}

	idx := NewContentIndex()
	queue := newWorkQueue(b.opts.QueueDepth)

	VerboseLog(1, "indexing %d root(s) with %d %s worker(s)", len(roots), b.opts.Workers, b.opts.Algorithm.Name)

	workers := pool.New().WithMaxGoroutines(b.opts.Workers)
	for i := 0; i < b.opts.Workers; i++ {
		workers.Go(func() { b.hashWorker(i, queue, idx) })
	}

	walker := &Walker{
		Excluder:     b.opts.Excluder,
		IncludeEmpty: b.opts.IncludeEmpty,
		Sink:         b.opts.Sink,
		Progress:     b.progress,
	}
	walker.Walk(roots, func(path string, size int64) {
		queue.Push(hashJob{path: path, size: size})
	})

	queue.Close()
	workers.Wait()
	idx.Freeze()

	snap := b.progress.Snapshot()
	VerboseLog(1, "indexed %d file(s), %d distinct digest(s)", snap.Hashed, idx.Len())
	return idx, nil
}

// hashWorker drains the queue until it is closed and empty
func (b *IndexBuilder) hashWorker(id int, queue *workQueue, idx *ContentIndex) {
	for {
		job, ok := queue.Pop()
		if !ok {
			b.progress.setCurrent(id, "")
			return
		}

		b.progress.setCurrent(id, job.path)
		DebugLog(DebugHash, "worker %d hashing %s (%d bytes)", id, job.path, job.size)

		digest, err := HashFile(job.path, b.opts.Algorithm, b.opts.BufferSize)
		if err != nil {
			if b.opts.Sink != nil {
				b.opts.Sink.Warn(job.path, err)
			}
		} else if err := idx.Add(digest, job.path, job.size); err != nil {
			// Only reachable if the index was frozen underneath us
			if b.opts.Sink != nil {
				b.opts.Sink.Warn(job.path, err)
			}
		}

		b.progress.addDone(job.size, err == nil)
		b.progress.setCurrent(id, "")
	}
}
