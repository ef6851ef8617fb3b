package treeutils

import (
	"path/filepath"
	"testing"
)

func TestFindDuplicates(t *testing.T) {
	root := canonicalTempDir(t)
	writeTree(t, root, map[string]string{
		"x/1.bin": "AA",
		"x/2.bin": "AA",
		"y/3.bin": "BB",
	})

	groups := FindDuplicates(buildIndex(t, BuildOptions{}, root))
	if len(groups) != 1 {
		t.Fatalf("Expected 1 duplicate group, got %d", len(groups))
	}

	g := groups[0]
	want := []string{filepath.Join(root, "x", "1.bin"), filepath.Join(root, "x", "2.bin")}
	if g.Count != 2 || len(g.Files) != 2 {
		t.Fatalf("Expected 2 files in group, got %v", g.Files)
	}
	for i := range want {
		if g.Files[i] != want[i] {
			t.Errorf("Expected file[%d] '%s', got '%s'", i, want[i], g.Files[i])
		}
	}

	if g.Size != 2 || g.WastedBytes() != 2 {
		t.Errorf("Expected size 2 and 2 wasted bytes, got size %d wasted %d", g.Size, g.WastedBytes())
	}

	alg, _ := GetHashAlgorithm(DefaultHashAlgorithm)
	if g.Hash != HashBytes([]byte("AA"), alg).Hex() {
		t.Errorf("Expected group hash of \"AA\", got %s", g.Hash)
	}
}

func TestFindDuplicatesNone(t *testing.T) {
	root := canonicalTempDir(t)
	writeTree(t, root, map[string]string{"a": "1", "b": "2"})

	if groups := FindDuplicates(buildIndex(t, BuildOptions{}, root)); len(groups) != 0 {
		t.Errorf("Expected no duplicates, got %d", len(groups))
	}
}

func TestFindDuplicatesGroupOrder(t *testing.T) {
	idx := NewContentIndex()
	idx.Add(Digest("1"), "/r/z2", 0)
	idx.Add(Digest("1"), "/r/z1", 0)
	idx.Add(Digest("2"), "/r/b", 0)
	idx.Add(Digest("2"), "/r/a", 0)
	idx.Add(Digest("2"), "/r/c", 0)
	idx.Add(Digest("3"), "/r/single", 0)
	idx.Freeze()

	groups := FindDuplicates(idx)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Files[0] != "/r/a" || groups[1].Files[0] != "/r/z1" {
		t.Errorf("Expected groups ordered by first member, got %v then %v", groups[0].Files, groups[1].Files)
	}
	if groups[0].Count != 3 {
		t.Errorf("Expected count 3, got %d", groups[0].Count)
	}
}

func TestDuplicateGroupWastedBytes(t *testing.T) {
	g := DuplicateGroup{Files: []string{"a", "b", "c"}, Count: 3, Size: 10}
	if got := g.WastedBytes(); got != 20 {
		t.Errorf("Expected 20 wasted bytes, got %d", got)
	}
	if got := (DuplicateGroup{Count: 1, Size: 10}).WastedBytes(); got != 0 {
		t.Errorf("Expected 0 wasted bytes for a single file, got %d", got)
	}
}

func TestDuplicateSummary(t *testing.T) {
	root := canonicalTempDir(t)
	writeTree(t, root, map[string]string{
		"a/1": "0123456789",
		"a/2": "0123456789",
		"b/3": "0123456789",
		"c/4": "xy",
		"c/5": "xy",
	})

	groups := FindDuplicates(buildIndex(t, BuildOptions{}, root))
	if got, want := DuplicateSummary(groups), "2 duplicate group(s), 5 file(s), 22 B reclaimable"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got, want := DuplicateSummary(nil), "0 duplicate group(s), 0 file(s), 0 B reclaimable"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
