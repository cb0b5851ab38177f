package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskscout/internal/core/workspace"
)

func testFolder(t *testing.T, files map[string]string) workspace.Folder {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return workspace.Folder{Name: filepath.Base(dir), Path: dir}
}

func TestFindFiles(t *testing.T) {
	folder := testFolder(t, map[string]string{
		"build.xml":              "<project/>",
		"sub/Build.xml":          "<project/>",
		"sub/other.txt":          "x",
		"node_modules/build.xml": "<project/>",
	})

	files, err := FindFiles(folder, "**/[Bb]uild.xml", []string{"**/node_modules/**"})
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestFindFiles_BraceExpansion(t *testing.T) {
	folder := testFolder(t, map[string]string{
		"a.sh":       "",
		"deep/b.py":  "",
		"deep/c.txt": "",
	})

	files, err := FindFiles(folder, "**/*.{sh,py}", nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestIsExcluded(t *testing.T) {
	cases := []struct {
		path     string
		excludes []string
		want     bool
	}{
		{"node_modules/x/package.json", []string{"**/node_modules/**"}, true},
		{"src/package.json", []string{"**/node_modules/**"}, false},
		{"a/b/vendor/c.go", []string{"vendor"}, true}, // plain substring
		{"src/main.go", nil, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsExcluded(tc.path, tc.excludes), "path %s", tc.path)
	}
}

// A trailing /** matches the directory itself in doublestar, so the
// watcher's recursive registration can skip excluded trees at the
// directory level, not just filter their file events.
func TestIsExcluded_DirectoryItself(t *testing.T) {
	cases := []struct {
		dir      string
		excludes []string
		want     bool
	}{
		{"/w/proj/node_modules", []string{"**/node_modules/**"}, true},
		{"/w/proj/node_modules/dep", []string{"**/node_modules/**"}, true},
		{"/w/proj/.git", []string{"**/.git/**"}, true},
		{"/w/proj/src", []string{"**/node_modules/**"}, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsExcluded(tc.dir, tc.excludes), "dir %s", tc.dir)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
