package treeutils

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// diffSkiplist keeps diff entries ordered by component sequence. The
// context string of each node carries the entry's status.
type diffSkiplist struct {
	skiplist *zcsl.ZeroCopySkiplist[DiffEntry, string, string]
}

func newDiffSkiplist(maxLevels int) *diffSkiplist {
	if maxLevels < 8 {
		maxLevels = 16
	}

	getKeyFromItem := func(e *DiffEntry) string {
		return e.Path.Key()
	}

	getItemSize := func(e *DiffEntry) int {
		return len(e.Path.Key())
	}

	skiplist := zcsl.MakeZeroCopySkiplist[DiffEntry, string, string](
		maxLevels,
		getKeyFromItem,
		getItemSize,
		strings.Compare,
	)

	return &diffSkiplist{skiplist: skiplist}
}

// Insert adds an entry, using its status as the node context. It returns
// false if the path was already present.
func (sl *diffSkiplist) Insert(entry DiffEntry) bool {
	return sl.skiplist.Insert(&entry, entry.Status.Context())
}

// ForEach visits entries in path order until callback returns false
func (sl *diffSkiplist) ForEach(callback func(*DiffEntry, string) bool) {
	for current := sl.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			break
		}
	}
}

// ForEachContext visits only entries carrying the given context
func (sl *diffSkiplist) ForEachContext(context string, callback func(*DiffEntry) bool) {
	sl.ForEach(func(entry *DiffEntry, entryContext string) bool {
		if entryContext == context {
			return callback(entry)
		}
		return true
	})
}

// Length returns the number of entries
func (sl *diffSkiplist) Length() int {
	return sl.skiplist.Length()
}
