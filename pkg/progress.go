package treeutils

import "sync/atomic"

// Progress is shared by the walker, the hash workers and a reporter. The
// walker grows the byte total as files are discovered; workers advance the
// done counter after each file, whether or not hashing succeeded.
type Progress struct {
	total      atomic.Int64
	done       atomic.Int64
	discovered atomic.Int64
	processed  atomic.Int64
	hashed     atomic.Int64
	walkDone   atomic.Bool
	workers    []atomic.Pointer[string]
}

// ProgressSnapshot is a point-in-time copy of Progress
type ProgressSnapshot struct {
	TotalBytes int64
	DoneBytes  int64
	Discovered int64
	Processed  int64 // files taken off the queue, hashed or not
	Hashed     int64
	WalkDone   bool
	Current    []string // per worker, "" when idle
}

// NewProgress creates counters for the given number of hash workers
func NewProgress(workers int) *Progress {
	return &Progress{workers: make([]atomic.Pointer[string], workers)}
}

func (p *Progress) addDiscovered(size int64) {
	p.total.Add(size)
	p.discovered.Add(1)
}

func (p *Progress) addDone(size int64, hashed bool) {
	p.done.Add(size)
	p.processed.Add(1)
	if hashed {
		p.hashed.Add(1)
	}
}

func (p *Progress) markWalkDone() {
	p.walkDone.Store(true)
}

func (p *Progress) setCurrent(worker int, path string) {
	if worker < 0 || worker >= len(p.workers) {
		return
	}
	if path == "" {
		p.workers[worker].Store(nil)
		return
	}
	p.workers[worker].Store(&path)
}

// Workers returns the number of worker slots
func (p *Progress) Workers() int {
	return len(p.workers)
}

// Snapshot reads every counter. Counters are read individually so DoneBytes
// may briefly lag a concurrent TotalBytes update but never exceeds it once
// the walk is done.
func (p *Progress) Snapshot() ProgressSnapshot {
	s := ProgressSnapshot{
		DoneBytes:  p.done.Load(),
		TotalBytes: p.total.Load(),
		Discovered: p.discovered.Load(),
		Processed:  p.processed.Load(),
		Hashed:     p.hashed.Load(),
		WalkDone:   p.walkDone.Load(),
		Current:    make([]string, len(p.workers)),
	}
	for i := range p.workers {
		if cur := p.workers[i].Load(); cur != nil {
			s.Current[i] = *cur
		}
	}
	return s
}
