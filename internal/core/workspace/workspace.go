// Package workspace models the set of root folders taskscout scans.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Folder is one workspace root. Name is the folder basename and is used
// as the top-level label in the task tree.
type Folder struct {
	Name string
	Path string
}

// Resolve converts a list of directory paths into workspace folders.
// Paths are made absolute and must exist as directories. An empty list
// resolves to the current working directory.
func Resolve(paths []string) ([]Folder, error) {
	if len(paths) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve cwd: %w", err)
		}
		paths = []string{cwd}
	}

	folders := make([]Folder, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", p)
		}

		folders = append(folders, Folder{
			Name: filepath.Base(abs),
			Path: abs,
		})
	}

	return folders, nil
}

// Contains reports whether path is inside the folder.
func (f Folder) Contains(path string) bool {
	rel, err := filepath.Rel(f.Path, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// RelDir returns the directory of path relative to the folder root using
// forward slashes. The folder root itself is the empty string.
func (f Folder) RelDir(path string) string {
	rel, err := filepath.Rel(f.Path, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Owner returns the folder containing path, or false if no folder does.
func Owner(folders []Folder, path string) (Folder, bool) {
	for _, f := range folders {
		if f.Contains(path) {
			return f, true
		}
	}
	return Folder{}, false
}
