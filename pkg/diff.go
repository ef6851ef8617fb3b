package treeutils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FileStatus represents the status of a path across the two diffed trees
type FileStatus int

const (
	StatusUnchanged FileStatus = iota
	StatusChanged
	StatusCreated
	StatusDeleted
)

// String returns the lowercase status name
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return ContextChanged
	case StatusCreated:
		return ContextCreated
	case StatusDeleted:
		return ContextDeleted
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Context returns the skiplist context recorded for the status
func (s FileStatus) Context() string {
	return s.String()
}

// Marker is the single character printed before a leaf in diff output
func (s FileStatus) Marker() string {
	switch s {
	case StatusChanged:
		return "~"
	case StatusCreated:
		return "+"
	case StatusDeleted:
		return "-"
	default:
		return " "
	}
}

// CopyMatch selects which old path a new path is attributed to when several
// old paths share its content
type CopyMatch int

const (
	// CopyMatchFarthest keeps the pairing with the largest edit distance
	CopyMatchFarthest CopyMatch = iota
	// CopyMatchClosest keeps the pairing with the smallest edit distance
	CopyMatchClosest
)

// String implements fmt.Stringer
func (m CopyMatch) String() string {
	if m == CopyMatchClosest {
		return "closest"
	}
	return "farthest"
}

// ParseCopyMatch parses "farthest" or "closest"
func ParseCopyMatch(s string) (CopyMatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "farthest":
		return CopyMatchFarthest, nil
	case "closest":
		return CopyMatchClosest, nil
	default:
		return 0, fmt.Errorf("unsupported copy match: %s (supported: farthest, closest)", s)
	}
}

// DiffOptions tunes the diff engine
type DiffOptions struct {
	CopyMatch CopyMatch
}

// DiffEntry is one reported path with its copy hints
type DiffEntry struct {
	Path       RelPath
	Status     FileStatus
	CopiedFrom RelPath   // old path with the same content, nil if none
	CopiedTo   []RelPath // new paths attributed to this old path, sorted
}

// DiffCounts summarizes statuses over every path in both trees
type DiffCounts struct {
	Unchanged int
	Changed   int
	Created   int
	Deleted   int
}

// DiffResult is the outcome of diffing two roots of one ContentIndex
type DiffResult struct {
	OldRoot string
	NewRoot string

	entries    *diffSkiplist
	status     map[string]FileStatus
	copiesFrom map[string]RelPath
	copiesTo   map[string][]RelPath
}

type pathPair struct {
	old, new RelPath
	dist     int
}

// Diff assigns a status to every path under either root and attaches
// copy/rename hints from paths that share a digest across the roots.
func Diff(idx *ContentIndex, oldRoot, newRoot string, opts DiffOptions) (*DiffResult, error) {
	defer VerboseEnter()()

	if err := CheckDisjoint(oldRoot, newRoot); err != nil {
		return nil, err
	}

	roots := NewRootSet(oldRoot, newRoot)
	res := &DiffResult{
		OldRoot:    oldRoot,
		NewRoot:    newRoot,
		status:     make(map[string]FileStatus),
		copiesFrom: make(map[string]RelPath),
		copiesTo:   make(map[string][]RelPath),
	}

	err := idx.ForEach(func(d Digest, paths []string) error {
		oldPaths := make(map[string]RelPath)
		newPaths := make(map[string]RelPath)
		for _, p := range paths {
			root, rel, ok := roots.Classify(p)
			if !ok {
				DebugLog(DebugDiff, "ignoring %s outside both roots", p)
				continue
			}
			if root == 0 {
				oldPaths[rel.Key()] = rel
			} else {
				newPaths[rel.Key()] = rel
			}
		}

		res.resolveCopies(sortedPaths(oldPaths), sortedPaths(newPaths), opts.CopyMatch)
		return res.assignStatuses(sortedPaths(oldPaths), sortedPaths(newPaths), newPaths)
	})
	if err != nil {
		return nil, err
	}

	for newKey, old := range res.copiesFrom {
		res.copiesTo[old.Key()] = append(res.copiesTo[old.Key()], RelPathFromKey(newKey))
	}
	for _, dests := range res.copiesTo {
		sort.Slice(dests, func(i, j int) bool { return dests[i].Compare(dests[j]) < 0 })
	}

	res.entries = newDiffSkiplist(16)
	for key, st := range res.status {
		if st == StatusUnchanged {
			continue
		}
		path := RelPathFromKey(key)
		res.entries.Insert(DiffEntry{
			Path:       path,
			Status:     st,
			CopiedFrom: res.copiesFrom[key],
			CopiedTo:   res.copiesTo[key],
		})
	}

	c := res.Counts()
	VerboseLog(1, "diff: %d unchanged, %d changed, %d created, %d deleted, %d copy hint(s)",
		c.Unchanged, c.Changed, c.Created, c.Deleted, res.CopyCount())
	return res, nil
}

// resolveCopies records one old source for every new path of a bucket.
// Pairs are ranked by edit distance between the slash-joined forms; the
// first pair seen for a new path wins.
func (r *DiffResult) resolveCopies(oldPaths, newPaths []RelPath, match CopyMatch) {
	if len(oldPaths) == 0 || len(newPaths) == 0 {
		return
	}

	pairs := make([]pathPair, 0, len(oldPaths)*len(newPaths))
	for _, np := range newPaths {
		for _, op := range oldPaths {
			pairs = append(pairs, pathPair{
				old:  op,
				new:  np,
				dist: levenshtein.ComputeDistance(op.String(), np.String()),
			})
		}
	}

	if match == CopyMatchClosest {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })
	} else {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist > pairs[j].dist })
	}

	for _, pair := range pairs {
		key := pair.new.Key()
		if _, taken := r.copiesFrom[key]; !taken {
			r.copiesFrom[key] = pair.old
			DebugLog(DebugDiff, "copy %s <= %s (distance %d)", pair.new, pair.old, pair.dist)
		}
	}
}

// assignStatuses applies the per-bucket status transitions. A path can be
// written at most twice: once from the bucket holding its old content and
// once from the bucket holding its new content.
func (r *DiffResult) assignStatuses(oldPaths, newPaths []RelPath, newSet map[string]RelPath) error {
	for _, op := range oldPaths {
		key := op.Key()
		if existing, seen := r.status[key]; seen {
			if existing != StatusCreated {
				return conflictError(op, existing, StatusDeleted)
			}
			r.status[key] = StatusChanged
			continue
		}
		if _, same := newSet[key]; same {
			r.status[key] = StatusUnchanged
		} else {
			r.status[key] = StatusDeleted
		}
	}

	for _, np := range newPaths {
		key := np.Key()
		if existing, seen := r.status[key]; seen {
			switch existing {
			case StatusUnchanged:
			case StatusDeleted:
				r.status[key] = StatusChanged
			default:
				return conflictError(np, existing, StatusCreated)
			}
			continue
		}
		r.status[key] = StatusCreated
	}
	return nil
}

func conflictError(path RelPath, existing, attempted FileStatus) error {
	return fmt.Errorf("%w: %s already %s, cannot apply %s", ErrStatusConflict, path, existing, attempted)
}

func sortedPaths(set map[string]RelPath) []RelPath {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]RelPath, len(keys))
	for i, k := range keys {
		out[i] = set[k]
	}
	return out
}

// Entries returns every path whose status is not Unchanged, in component order
func (r *DiffResult) Entries() []DiffEntry {
	out := make([]DiffEntry, 0, r.entries.Length())
	r.entries.ForEach(func(e *DiffEntry, _ string) bool {
		out = append(out, *e)
		return true
	})
	return out
}

// EntriesWithStatus returns the reported entries carrying one status
func (r *DiffResult) EntriesWithStatus(status FileStatus) []DiffEntry {
	var out []DiffEntry
	r.entries.ForEachContext(status.Context(), func(e *DiffEntry) bool {
		out = append(out, *e)
		return true
	})
	return out
}

// Status returns the status of any path seen under either root
func (r *DiffResult) Status(path RelPath) (FileStatus, bool) {
	st, ok := r.status[path.Key()]
	return st, ok
}

// CopiesFrom returns the old source chosen for a new path
func (r *DiffResult) CopiesFrom(path RelPath) (RelPath, bool) {
	old, ok := r.copiesFrom[path.Key()]
	return old, ok
}

// CopiesTo returns the sorted new paths attributed to an old path
func (r *DiffResult) CopiesTo(path RelPath) []RelPath {
	return r.copiesTo[path.Key()]
}

// CopyCount returns the number of new paths with a recorded source
func (r *DiffResult) CopyCount() int {
	return len(r.copiesFrom)
}

// Counts tallies statuses over every path, including unchanged ones
func (r *DiffResult) Counts() DiffCounts {
	var c DiffCounts
	for _, st := range r.status {
		switch st {
		case StatusUnchanged:
			c.Unchanged++
		case StatusChanged:
			c.Changed++
		case StatusCreated:
			c.Created++
		case StatusDeleted:
			c.Deleted++
		}
	}
	return c
}
