package treeutils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Excluder decides which root-relative paths the walker skips. Patterns use
// gitignore syntax; a nil *Excluder excludes nothing.
type Excluder struct {
	patterns []string
	matcher  *ignore.GitIgnore
}

// NewExcluder compiles gitignore-style patterns. Blank lines and comments
// are dropped.
func NewExcluder(patterns ...string) *Excluder {
	var kept []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil
	}
	return &Excluder{
		patterns: kept,
		matcher:  ignore.CompileIgnoreLines(kept...),
	}
}

// ParseExcludeList splits a comma separated pattern list as stored in config
func ParseExcludeList(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadExcludeFile reads one pattern per line from path
func LoadExcludeFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading exclude file: %w", err)
	}
	return lines, nil
}

// ShouldIgnore reports whether the root-relative path is excluded. Directory
// paths are matched with a trailing slash so "build/" style patterns apply.
func (e *Excluder) ShouldIgnore(relativePath string, isDir bool) bool {
	if e == nil || e.matcher == nil {
		return false
	}
	p := filepath.ToSlash(relativePath)
	if isDir {
		p += "/"
	}
	return e.matcher.MatchesPath(p)
}

// Patterns returns the compiled pattern lines
func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return e.patterns
}
