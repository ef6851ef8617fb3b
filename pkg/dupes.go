package treeutils

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// DuplicateGroup represents a group of files with the same hash
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Count int      `json:"count"`
	Size  int64    `json:"size,omitempty"` // bytes per member
}

// WastedBytes is the space that would be reclaimed by keeping one member
func (g DuplicateGroup) WastedBytes() int64 {
	if g.Count < 2 {
		return 0
	}
	return g.Size * int64(g.Count-1)
}

// FindDuplicates returns every bucket of idx with more than one path.
// Members are sorted and groups are ordered by their first member, so the
// result does not depend on hashing order.
func FindDuplicates(idx *ContentIndex) []DuplicateGroup {
	defer VerboseEnter()()

	var result []DuplicateGroup
	idx.ForEach(func(d Digest, paths []string) error {
		if len(paths) < 2 {
			return nil
		}
		files := append([]string(nil), paths...)
		sort.Strings(files)
		result = append(result, DuplicateGroup{
			Hash:  d.Hex(),
			Files: files,
			Count: len(files),
			Size:  idx.Size(d),
		})
		return nil
	})

	sort.Slice(result, func(i, j int) bool { return result[i].Files[0] < result[j].Files[0] })
	VerboseLog(1, "found %d duplicate group(s)", len(result))
	return result
}

// DuplicateSummary totals groups and reclaimable bytes in one line
func DuplicateSummary(groups []DuplicateGroup) string {
	var files int
	var wasted int64
	for _, g := range groups {
		files += g.Count
		wasted += g.WastedBytes()
	}
	return fmt.Sprintf("%d duplicate group(s), %d file(s), %s reclaimable",
		len(groups), files, humanize.IBytes(uint64(wasted)))
}
