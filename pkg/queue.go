package treeutils

import "sync"

// hashJob is one regular file waiting to be hashed
type hashJob struct {
	path string
	size int64
}

// workQueue is a FIFO shared by many producers (walker goroutines) and many
// consumers (hash workers). With depth 0 Push never blocks; otherwise Push
// waits while depth items are pending. Close may be called once all
// producers are done; Pop keeps returning queued items until the queue is
// drained and only then reports false.
type workQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []hashJob
	head     int
	depth    int
	closed   bool
}

func newWorkQueue(depth int) *workQueue {
	if depth < 0 {
		depth = 0
	}
	q := &workQueue{depth: depth}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends a job. It returns false if the queue is already closed.
func (q *workQueue) Push(job hashJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.depth > 0 && q.pendingLocked() >= q.depth && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return false
	}

	q.items = append(q.items, job)
	q.notEmpty.Signal()
	return true
}

// Pop removes the oldest job, blocking while the queue is empty and open
func (q *workQueue) Pop() (hashJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pendingLocked() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.pendingLocked() == 0 {
		return hashJob{}, false
	}

	job := q.items[q.head]
	q.items[q.head] = hashJob{}
	q.head++
	// Compact once the consumed prefix dominates the backing array
	if q.head > 1024 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0:0], q.items[q.head:]...)
		q.head = 0
	}
	if q.depth > 0 {
		q.notFull.Signal()
	}
	return job, true
}

// Close stops accepting jobs and wakes every blocked consumer. It is safe to
// call more than once.
func (q *workQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of pending jobs
func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pendingLocked()
}

func (q *workQueue) pendingLocked() int {
	return len(q.items) - q.head
}
