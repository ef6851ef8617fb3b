package treeutils

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffTrees(t *testing.T, oldFiles, newFiles map[string]string, opts DiffOptions) *DiffResult {
	t.Helper()
	oldRoot, newRoot := twoRoots(t, oldFiles, newFiles)
	idx := buildIndex(t, BuildOptions{}, oldRoot, newRoot)
	res, err := Diff(idx, oldRoot, newRoot, opts)
	require.NoError(t, err)
	return res
}

func p(parts ...string) RelPath {
	return RelPath(parts)
}

func TestDiffIdenticalTrees(t *testing.T) {
	res := diffTrees(t,
		map[string]string{"a.txt": "hello"},
		map[string]string{"a.txt": "hello"},
		DiffOptions{})

	assert.Empty(t, res.Entries())
	st, ok := res.Status(p("a.txt"))
	require.True(t, ok)
	assert.Equal(t, StatusUnchanged, st)
	assert.Equal(t, DiffCounts{Unchanged: 1}, res.Counts())
}

func TestDiffRename(t *testing.T) {
	res := diffTrees(t,
		map[string]string{"a.txt": "hello"},
		map[string]string{"b.txt": "hello"},
		DiffOptions{})

	entries := res.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, p("a.txt"), entries[0].Path)
	assert.Equal(t, StatusDeleted, entries[0].Status)
	assert.Nil(t, entries[0].CopiedFrom)
	assert.Equal(t, []RelPath{p("b.txt")}, entries[0].CopiedTo)

	assert.Equal(t, p("b.txt"), entries[1].Path)
	assert.Equal(t, StatusCreated, entries[1].Status)
	assert.Equal(t, p("a.txt"), entries[1].CopiedFrom)
	assert.Empty(t, entries[1].CopiedTo)
}

func TestDiffChangedContent(t *testing.T) {
	res := diffTrees(t,
		map[string]string{"a.txt": "hello"},
		map[string]string{"a.txt": "world"},
		DiffOptions{})

	entries := res.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusChanged, entries[0].Status)
	assert.Nil(t, entries[0].CopiedFrom)
	assert.Empty(t, entries[0].CopiedTo)
	assert.Zero(t, res.CopyCount())
}

func TestDiffCreatedOnly(t *testing.T) {
	res := diffTrees(t,
		map[string]string{},
		map[string]string{"c.txt": "new"},
		DiffOptions{})

	entries := res.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, p("c.txt"), entries[0].Path)
	assert.Equal(t, StatusCreated, entries[0].Status)
	assert.Nil(t, entries[0].CopiedFrom)
}

func TestDiffEveryPathHasOneStatus(t *testing.T) {
	oldFiles := map[string]string{
		"keep.txt":      "same",
		"gone.txt":      "removed",
		"edit.txt":      "before",
		"dir/move.txt":  "moving",
		"dir/twin1.txt": "twin",
	}
	newFiles := map[string]string{
		"keep.txt":      "same",
		"edit.txt":      "after",
		"other/mv.txt":  "moving",
		"dir/twin1.txt": "twin",
		"dir/twin2.txt": "twin",
		"fresh.txt":     "brand new",
	}
	res := diffTrees(t, oldFiles, newFiles, DiffOptions{})

	union := map[string]bool{}
	for k := range oldFiles {
		union[k] = true
	}
	for k := range newFiles {
		union[k] = true
	}
	for k := range union {
		_, ok := res.Status(RelPath(splitSlash(k)))
		assert.True(t, ok, "missing status for %s", k)
	}

	want := map[string]FileStatus{
		"keep.txt":      StatusUnchanged,
		"gone.txt":      StatusDeleted,
		"edit.txt":      StatusChanged,
		"dir/move.txt":  StatusDeleted,
		"other/mv.txt":  StatusCreated,
		"dir/twin1.txt": StatusUnchanged,
		"dir/twin2.txt": StatusCreated,
		"fresh.txt":     StatusCreated,
	}
	for k, st := range want {
		got, _ := res.Status(RelPath(splitSlash(k)))
		assert.Equal(t, st, got, "status of %s", k)
	}
	assert.Equal(t, DiffCounts{Unchanged: 2, Changed: 1, Created: 3, Deleted: 2}, res.Counts())
}

func TestDiffEntriesOrderedByComponent(t *testing.T) {
	res := diffTrees(t,
		map[string]string{},
		map[string]string{
			"b.txt":     "1",
			"a/z.txt":   "2",
			"a.txt":     "3",
			"a/b/c.txt": "4",
			"a-b.txt":   "5",
		},
		DiffOptions{})

	var got []string
	for _, e := range res.Entries() {
		got = append(got, e.Path.String())
	}
	assert.Equal(t, []string{"a/b/c.txt", "a/z.txt", "a-b.txt", "a.txt", "b.txt"}, got)
	assert.Len(t, res.EntriesWithStatus(StatusCreated), 5)
	assert.Empty(t, res.EntriesWithStatus(StatusDeleted))
}

func TestDiffCopyMapConsistency(t *testing.T) {
	res := diffTrees(t,
		map[string]string{"src/a.txt": "shared", "src/b.txt": "shared", "x.txt": "other"},
		map[string]string{"dst/a.txt": "shared", "dst/c.txt": "shared", "y/x.txt": "other"},
		DiffOptions{})

	// Every new path with content from the old tree has exactly one source
	for _, np := range []RelPath{p("dst", "a.txt"), p("dst", "c.txt"), p("y", "x.txt")} {
		old, ok := res.CopiesFrom(np)
		require.True(t, ok, "no source for %s", np)
		assert.Contains(t, res.CopiesTo(old), np)
	}
	assert.Equal(t, 3, res.CopyCount())

	// The reverse map holds nothing the forward map does not
	total := 0
	for _, op := range []RelPath{p("src", "a.txt"), p("src", "b.txt"), p("x.txt")} {
		for _, np := range res.CopiesTo(op) {
			src, ok := res.CopiesFrom(np)
			require.True(t, ok)
			assert.True(t, src.Equal(op))
			total++
		}
	}
	assert.Equal(t, 3, total)
}

func TestDiffCopyMatchTieBreak(t *testing.T) {
	oldFiles := map[string]string{"docs/report.txt": "payload", "zzzzzzzzzz/qqqqq.bin": "payload"}
	newFiles := map[string]string{"docs/report2.txt": "payload"}

	farthest := diffTrees(t, oldFiles, newFiles, DiffOptions{CopyMatch: CopyMatchFarthest})
	src, ok := farthest.CopiesFrom(p("docs", "report2.txt"))
	require.True(t, ok)
	assert.Equal(t, p("zzzzzzzzzz", "qqqqq.bin"), src)

	closest := diffTrees(t, oldFiles, newFiles, DiffOptions{CopyMatch: CopyMatchClosest})
	src, ok = closest.CopiesFrom(p("docs", "report2.txt"))
	require.True(t, ok)
	assert.Equal(t, p("docs", "report.txt"), src)
}

func TestDiffEqualDistanceIsDeterministic(t *testing.T) {
	oldFiles := map[string]string{"z1": "same", "x1": "same", "y1": "same"}
	newFiles := map[string]string{"b1": "same"}

	for i := 0; i < 5; i++ {
		res := diffTrees(t, oldFiles, newFiles, DiffOptions{})
		src, ok := res.CopiesFrom(p("b1"))
		require.True(t, ok)
		// All distances are equal, so the first pair in sorted order wins
		assert.Equal(t, p("x1"), src)
	}
}

func TestDiffRejectsOverlappingRoots(t *testing.T) {
	root := canonicalTempDir(t)
	idx := NewContentIndex()
	idx.Freeze()

	_, err := Diff(idx, root, filepath.Join(root, "nested"), DiffOptions{})
	assert.True(t, errors.Is(err, ErrOverlappingRoots))
}

func TestAssignStatusesConflict(t *testing.T) {
	r := &DiffResult{status: map[string]FileStatus{}}
	a := []RelPath{p("a")}

	require.NoError(t, r.assignStatuses(a, nil, nil))
	assert.Equal(t, StatusDeleted, r.status[p("a").Key()])

	// A second old-side write to a Deleted path is contradictory
	err := r.assignStatuses(a, nil, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)

	r = &DiffResult{status: map[string]FileStatus{}}
	require.NoError(t, r.assignStatuses(nil, a, nil))
	assert.ErrorIs(t, r.assignStatuses(nil, a, nil), ErrStatusConflict)
}

func TestParseCopyMatch(t *testing.T) {
	m, err := ParseCopyMatch("closest")
	require.NoError(t, err)
	assert.Equal(t, CopyMatchClosest, m)

	m, err = ParseCopyMatch("")
	require.NoError(t, err)
	assert.Equal(t, CopyMatchFarthest, m)

	_, err = ParseCopyMatch("nearest")
	assert.Error(t, err)
}

func splitSlash(s string) []string {
	return strings.Split(s, "/")
}
