// Package scan provides the file search and read primitives shared by
// every detector: glob matching, exclusion testing, and soft-fail reads.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/taskscout/internal/core/workspace"
)

// FindFiles walks folder for regular files matching the doublestar
// include pattern, skipping anything matched by excludes. Returned paths
// are absolute.
func FindFiles(folder workspace.Folder, include string, excludes []string) ([]string, error) {
	var files []string

	fsys := os.DirFS(folder.Path)
	err := doublestar.GlobWalk(fsys, include, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if IsExcluded(path, excludes) {
			return nil
		}
		files = append(files, filepath.Join(folder.Path, filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// IsExcluded reports whether path matches any exclusion entry. Entries
// are tried as doublestar patterns first, then as plain substrings so
// config like "node_modules" works without glob syntax.
func IsExcluded(path string, excludes []string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range excludes {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		if strings.Contains(slashed, pattern) {
			return true
		}
	}
	return false
}

// ReadFile reads a whole file as text. Callers treat an error as "file
// vanished" and skip the file rather than abort the scan.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
