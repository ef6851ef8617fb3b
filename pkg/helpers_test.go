package treeutils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTree creates files under root from a relative path -> content map
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// canonicalTempDir returns a fresh directory with symlinks resolved, so
// paths reported by the walker match the root string
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := CanonicalizeRoot(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to canonicalize temp dir: %v", err)
	}
	return dir
}

// twoRoots creates sibling old/new trees under one temp dir
func twoRoots(t *testing.T, oldFiles, newFiles map[string]string) (string, string) {
	t.Helper()
	base := canonicalTempDir(t)
	oldRoot := filepath.Join(base, "old")
	newRoot := filepath.Join(base, "new")
	for _, dir := range []string{oldRoot, newRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	writeTree(t, oldRoot, oldFiles)
	writeTree(t, newRoot, newFiles)
	return oldRoot, newRoot
}

// collectSink records warnings for assertions
type collectSink struct {
	mu    sync.Mutex
	paths []string
	errs  []error
}

func (s *collectSink) Warn(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	s.errs = append(s.errs, err)
}

func buildIndex(t *testing.T, opts BuildOptions, roots ...string) *ContentIndex {
	t.Helper()
	builder, err := NewIndexBuilder(opts)
	if err != nil {
		t.Fatalf("Failed to create index builder: %v", err)
	}
	idx, err := builder.Build(roots...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return idx
}
