package treeutils

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// indexShard holds the buckets whose digest starts with a given byte range
type indexShard struct {
	mu      sync.Mutex
	buckets map[Digest][]string
	sizes   map[Digest]int64
}

// ContentIndex maps a digest to every absolute path with that content.
// Add is safe from many goroutines while the index is being built; after
// Freeze the index is read-only and every accessor may be called without
// further synchronization.
type ContentIndex struct {
	shards [shardCount]indexShard
	frozen atomic.Bool
	files  atomic.Int64
}

// NewContentIndex creates an empty, writable index
func NewContentIndex() *ContentIndex {
	idx := &ContentIndex{}
	for i := range idx.shards {
		idx.shards[i].buckets = make(map[Digest][]string)
		idx.shards[i].sizes = make(map[Digest]int64)
	}
	return idx
}

func (idx *ContentIndex) shardFor(d Digest) *indexShard {
	if len(d) == 0 {
		return &idx.shards[0]
	}
	return &idx.shards[int(d[0])%shardCount]
}

// Add appends path to the bucket for d. size is the file's byte count;
// every path in a bucket shares it.
func (idx *ContentIndex) Add(d Digest, path string, size int64) error {
	if idx.frozen.Load() {
		return fmt.Errorf("%w: cannot add %s", ErrIndexFrozen, path)
	}
	shard := idx.shardFor(d)
	shard.mu.Lock()
	shard.buckets[d] = append(shard.buckets[d], path)
	shard.sizes[d] = size
	shard.mu.Unlock()
	idx.files.Add(1)

	if IsDebugEnabled(DebugIndex) {
		DebugLog(DebugIndex, "add %s %s", d.Hex(), path)
	}
	return nil
}

// Freeze marks the index read-only
func (idx *ContentIndex) Freeze() {
	idx.frozen.Store(true)
}

// Frozen reports whether Freeze has been called
func (idx *ContentIndex) Frozen() bool {
	return idx.frozen.Load()
}

// Len returns the number of distinct digests
func (idx *ContentIndex) Len() int {
	n := 0
	for i := range idx.shards {
		shard := &idx.shards[i]
		shard.mu.Lock()
		n += len(shard.buckets)
		shard.mu.Unlock()
	}
	return n
}

// Files returns the number of indexed paths
func (idx *ContentIndex) Files() int {
	return int(idx.files.Load())
}

// Paths returns a copy of the paths recorded for d, in insertion order
func (idx *ContentIndex) Paths(d Digest) []string {
	shard := idx.shardFor(d)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return append([]string(nil), shard.buckets[d]...)
}

// Size returns the byte count of the content behind d
func (idx *ContentIndex) Size(d Digest) int64 {
	shard := idx.shardFor(d)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.sizes[d]
}

// Digests returns every digest in byte order
func (idx *ContentIndex) Digests() []Digest {
	var digests []Digest
	for i := range idx.shards {
		shard := &idx.shards[i]
		shard.mu.Lock()
		for d := range shard.buckets {
			digests = append(digests, d)
		}
		shard.mu.Unlock()
	}
	sort.Slice(digests, func(i, j int) bool { return digests[i] < digests[j] })
	return digests
}

// ForEach visits every bucket in digest order. Iteration stops early when fn
// returns an error, which is passed back to the caller.
func (idx *ContentIndex) ForEach(fn func(d Digest, paths []string) error) error {
	for _, d := range idx.Digests() {
		if err := fn(d, idx.Paths(d)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns digest -> sorted paths, suitable for set comparisons
func (idx *ContentIndex) Snapshot() map[Digest][]string {
	out := make(map[Digest][]string)
	for i := range idx.shards {
		shard := &idx.shards[i]
		shard.mu.Lock()
		for d, paths := range shard.buckets {
			sorted := append([]string(nil), paths...)
			sort.Strings(sorted)
			out[d] = sorted
		}
		shard.mu.Unlock()
	}
	return out
}
