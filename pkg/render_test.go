package treeutils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func renderDiff(t *testing.T, res *DiffResult, r DiffRenderer) string {
	t.Helper()
	var buf bytes.Buffer
	r.Out = &buf
	if err := r.Render(res); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestRenderDiffScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		oldFiles map[string]string
		newFiles map[string]string
		want     string
	}{
		{
			name:     "identical",
			oldFiles: map[string]string{"a.txt": "hello"},
			newFiles: map[string]string{"a.txt": "hello"},
			want:     "",
		},
		{
			name:     "rename",
			oldFiles: map[string]string{"a.txt": "hello"},
			newFiles: map[string]string{"b.txt": "hello"},
			want:     "- a.txt => b.txt\n+ b.txt <= a.txt\n",
		},
		{
			name:     "changed",
			oldFiles: map[string]string{"a.txt": "hello"},
			newFiles: map[string]string{"a.txt": "world"},
			want:     "~ a.txt\n",
		},
		{
			name:     "created",
			oldFiles: map[string]string{},
			newFiles: map[string]string{"c.txt": "new"},
			want:     "+ c.txt\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := diffTrees(t, tc.oldFiles, tc.newFiles, DiffOptions{})
			if got := renderDiff(t, res, DiffRenderer{}); got != tc.want {
				t.Errorf("Expected output:\n%q\ngot:\n%q", tc.want, got)
			}
		})
	}
}

func TestRenderDiffSharedAncestors(t *testing.T) {
	res := diffTrees(t,
		map[string]string{},
		map[string]string{
			"a/b/one.txt": "1",
			"a/b/two.txt": "2",
			"a/c/three":   "3",
			"top.txt":     "4",
		},
		DiffOptions{})

	want := strings.Join([]string{
		"a",
		"  b",
		"    + one.txt",
		"    + two.txt",
		"  c",
		"    + three",
		"+ top.txt",
		"",
	}, "\n")
	if got := renderDiff(t, res, DiffRenderer{}); got != want {
		t.Errorf("Expected output:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderDiffRelativeCopyPaths(t *testing.T) {
	res := diffTrees(t,
		map[string]string{"src/a.txt": "hello"},
		map[string]string{"dst/sub/a.txt": "hello"},
		DiffOptions{})

	got := renderDiff(t, res, DiffRenderer{RelativeCopyPaths: true})
	if !strings.Contains(got, "+ a.txt <= ../../../src/a.txt") {
		t.Errorf("Expected relative source hint, got:\n%s", got)
	}
	if !strings.Contains(got, "- a.txt => ../../dst/sub/a.txt") {
		t.Errorf("Expected relative destination hint, got:\n%s", got)
	}
}

func TestRenderDiffHeaderAndColor(t *testing.T) {
	res := diffTrees(t,
		map[string]string{},
		map[string]string{"c.txt": "new"},
		DiffOptions{})

	got := renderDiff(t, res, DiffRenderer{Header: true, Color: true})
	lines := strings.Split(got, "\n")
	if !strings.HasPrefix(lines[0], "--- ") || !strings.HasSuffix(lines[0], "old") {
		t.Errorf("Expected old header line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "+++ ") || !strings.HasSuffix(lines[1], "new") {
		t.Errorf("Expected new header line, got %q", lines[1])
	}
	if lines[2] != sgrBrightGreen+"+ c.txt"+sgrReset {
		t.Errorf("Expected colored created line, got %q", lines[2])
	}
}

func TestRenderDuplicatesDecorated(t *testing.T) {
	groups := []DuplicateGroup{
		{Files: []string{"/r/a", "/r/b", "/r/c"}, Count: 3},
		{Files: []string{"/r/x", "/r/y"}, Count: 2},
	}

	var buf bytes.Buffer
	if err := RenderDuplicates(&buf, groups, DupRenderOptions{}); err != nil {
		t.Fatalf("RenderDuplicates failed: %v", err)
	}

	want := "\"/r/a\"\n├ \"/r/b\"\n└ \"/r/c\"\n\n\"/r/x\"\n└ \"/r/y\"\n\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestRenderDuplicatesRaw(t *testing.T) {
	groups := []DuplicateGroup{
		{Files: []string{"/r/a", "/r/b"}, Count: 2},
		{Files: []string{"/r/x", "/r/y"}, Count: 2},
	}

	var buf bytes.Buffer
	if err := RenderDuplicates(&buf, groups, DupRenderOptions{Raw: true, Color: true}); err != nil {
		t.Fatalf("RenderDuplicates failed: %v", err)
	}
	want := "/r/a\n/r/b\n\n/r/x\n/r/y\n\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestRenderDuplicatesNone(t *testing.T) {
	for _, raw := range []bool{false, true} {
		var buf bytes.Buffer
		if err := RenderDuplicates(&buf, nil, DupRenderOptions{Raw: raw}); err != nil {
			t.Fatalf("RenderDuplicates failed: %v", err)
		}
		if buf.String() != "No duplicates found\n" {
			t.Errorf("raw=%v: expected no-duplicates message, got %q", raw, buf.String())
		}
	}
}

func TestWriteRawGroupsToFile(t *testing.T) {
	var groups []DuplicateGroup
	var want strings.Builder
	// Enough lines to need several writev calls
	for i := 0; i < 700; i++ {
		a := filepath.Join("/data", "group", string(rune('a'+i%26)), "first")
		b := filepath.Join("/data", "group", string(rune('a'+i%26)), "second")
		groups = append(groups, DuplicateGroup{Files: []string{a, b}, Count: 2})
		want.WriteString(a + "\n" + b + "\n\n")
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create output file: %v", err)
	}
	if err := WriteRawGroups(f, groups); err != nil {
		f.Close()
		t.Fatalf("WriteRawGroups failed: %v", err)
	}
	f.Close()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(got) != want.String() {
		t.Errorf("File content mismatch: got %d bytes, expected %d", len(got), want.Len())
	}
}

func TestWriteRemainder(t *testing.T) {
	lines := [][]byte{[]byte("abc\n"), []byte("de\n"), []byte("\n")}
	var buf bytes.Buffer
	if err := writeRemainder(&buf, lines, 5); err != nil {
		t.Fatalf("writeRemainder failed: %v", err)
	}
	if buf.String() != "e\n\n" {
		t.Errorf("Expected remainder %q, got %q", "e\n\n", buf.String())
	}
}
