package treeutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/armon/go-radix"
)

// RelPath is a root-relative path held as its ordered name components
type RelPath []string

// String returns the slash-joined form used for display and edit distance
func (p RelPath) String() string {
	return strings.Join(p, "/")
}

// Key returns a string whose byte order matches the component-wise order of
// the path. NUL cannot appear in a file name so it sorts below every
// component byte.
func (p RelPath) Key() string {
	return strings.Join(p, "\x00")
}

// Compare orders two paths component by component
func (p RelPath) Compare(other RelPath) int {
	return strings.Compare(p.Key(), other.Key())
}

// Equal reports whether both paths have identical components
func (p RelPath) Equal(other RelPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// RelPathFromKey reverses Key
func RelPathFromKey(key string) RelPath {
	if key == "" {
		return RelPath{}
	}
	return strings.Split(key, "\x00")
}

// CommonPrefix returns the leading components shared by a and b
func CommonPrefix(a, b RelPath) RelPath {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// RelativeTo expresses to as a path relative to from: one ".." for every
// component of from past the shared prefix, followed by the rest of to.
func RelativeTo(from, to RelPath) RelPath {
	i := len(CommonPrefix(from, to))
	rel := make(RelPath, 0, len(from)-i+len(to)-i)
	for j := i; j < len(from); j++ {
		rel = append(rel, "..")
	}
	return append(rel, to[i:]...)
}

// CanonicalizeRoot resolves a user supplied root to an absolute,
// symlink-free directory path.
func CanonicalizeRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, resolved)
	}
	return resolved, nil
}

// CheckDisjoint fails with ErrOverlappingRoots when the two canonical roots
// are equal or one contains the other. Containment is decided on whole
// components, so /a/b and /a/bc are disjoint.
func CheckDisjoint(a, b string) error {
	if isWithin(a, b) || isWithin(b, a) {
		return fmt.Errorf("%w: %s and %s", ErrOverlappingRoots, a, b)
	}
	return nil
}

// isWithin reports whether path equals root or lies below it
func isWithin(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, withSeparator(root))
}

func withSeparator(root string) string {
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root
	}
	return root + string(filepath.Separator)
}

// SplitRelative strips root from an absolute path below it and returns the
// remaining components
func SplitRelative(root, abs string) RelPath {
	rest := strings.TrimPrefix(abs, withSeparator(root))
	if rest == "" || rest == abs {
		return RelPath{}
	}
	return strings.Split(rest, string(filepath.Separator))
}

// RootSet recovers which indexed root an absolute path belongs to
type RootSet struct {
	roots []string
	tree  *radix.Tree
}

// NewRootSet builds a RootSet over canonical roots. A root's position in the
// argument list is its identifier.
func NewRootSet(roots ...string) *RootSet {
	rs := &RootSet{
		roots: append([]string(nil), roots...),
		tree:  radix.New(),
	}
	for i, root := range roots {
		rs.tree.Insert(withSeparator(root), i)
	}
	return rs
}

// Roots returns the roots in identifier order
func (rs *RootSet) Roots() []string {
	return rs.roots
}

// Classify finds the deepest root containing abs and returns its identifier
// and the path relative to it
func (rs *RootSet) Classify(abs string) (int, RelPath, bool) {
	_, value, ok := rs.tree.LongestPrefix(abs)
	if !ok {
		return -1, nil, false
	}
	id := value.(int)
	return id, SplitRelative(rs.roots[id], abs), true
}
