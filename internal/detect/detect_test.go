package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

// testFolder creates a workspace folder rooted in a temp dir.
func testFolder(t *testing.T) workspace.Folder {
	t.Helper()
	dir := t.TempDir()
	return workspace.Folder{Name: filepath.Base(dir), Path: dir}
}

// writeFile writes content at relPath under the folder, creating parents.
func writeFile(t *testing.T, folder workspace.Folder, relPath, content string) string {
	t.Helper()
	path := filepath.Join(folder.Path, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	return &cfg
}

func boolPtr(b bool) *bool { return &b }
