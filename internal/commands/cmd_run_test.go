package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/pkg/executil"
)

func testDescriptors() []task.Descriptor {
	return []task.Descriptor{
		{
			Type:       task.TypeMake,
			Name:       "build",
			SourceFile: "/w/proj/Makefile",
			Invocation: task.Invocation{Command: "make", Args: []string{"build"}, Dir: "/w/proj"},
		},
		{
			Type:       task.TypeMake,
			Name:       "build",
			SourceFile: "/w/proj/sub/Makefile",
			Invocation: task.Invocation{Command: "make", Args: []string{"build"}, Dir: "/w/proj/sub"},
		},
		{
			Type:       task.TypeAnt,
			Name:       "dist",
			SourceFile: "/w/proj/build.xml",
			Invocation: task.Invocation{Command: "ant", Args: []string{"dist"}, Dir: "/w/proj"},
		},
	}
}

func TestResolveTask_Single(t *testing.T) {
	d, err := resolveTask(testDescriptors(), task.TypeAnt, "dist", "")
	require.NoError(t, err)
	assert.Equal(t, "/w/proj/build.xml", d.SourceFile)
}

func TestResolveTask_NotFound(t *testing.T) {
	_, err := resolveTask(testDescriptors(), task.TypeGradle, "assemble", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no task gradle:assemble")
}

func TestResolveTask_Ambiguous(t *testing.T) {
	_, err := resolveTask(testDescriptors(), task.TypeMake, "build", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestResolveTask_SourceDisambiguates(t *testing.T) {
	d, err := resolveTask(testDescriptors(), task.TypeMake, "build", "sub")
	require.NoError(t, err)
	assert.Equal(t, "/w/proj/sub/Makefile", d.SourceFile)
}

func TestResolveTask_SourceExcludesAll(t *testing.T) {
	_, err := resolveTask(testDescriptors(), task.TypeMake, "build", "elsewhere")
	assert.Error(t, err)
}

// runApp builds a minimal app with the run command and a recording
// executor, then runs it with the given arguments.
func runApp(t *testing.T, args ...string) (*executil.RecordingExecutor, *strings.Builder, error) {
	t.Helper()

	cfg := config.DefaultConfig()
	cmd := NewRunCmd(&Flags{Config: &cfg})
	rec := &executil.RecordingExecutor{}
	cmd.Executor = rec

	var out strings.Builder
	app := cmd.Register(&cli.Command{Name: "taskscout", Writer: &out})

	err := app.Run(context.Background(), append([]string{"taskscout"}, args...))
	return rec, &out, err
}

func TestRunCmd_ExecutesResolvedInvocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Makefile"), []byte("build:\n\tgo build ./...\n"), 0o644))

	rec, out, err := runApp(t, "run", "--dir", dir, "make:build")
	require.NoError(t, err)

	require.Len(t, rec.Commands, 1)
	got := rec.Commands[0]
	assert.Equal(t, "make", got.Cmd)
	assert.Equal(t, []string{"build"}, got.Args)
	assert.Equal(t, dir, filepath.Clean(got.Dir))
	assert.Contains(t, out.String(), "make build")
}

func TestRunCmd_ExtraArgsAppended(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Makefile"), []byte("build:\n"), 0o644))

	rec, _, err := runApp(t, "run", "--dir", dir, "make:build", "--", "VERBOSE=1")
	require.NoError(t, err)

	require.Len(t, rec.Commands, 1)
	assert.Equal(t, []string{"build", "VERBOSE=1"}, rec.Commands[0].Args)
}

func TestRunCmd_RequiresArgsRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deploy.bat"), []byte("@echo off\r\ncopy %1 %2\r\n"), 0o644))

	rec, _, err := runApp(t, "run", "--dir", dir, "batch:deploy.bat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positional parameters")
	assert.Empty(t, rec.Commands)

	rec, _, err = runApp(t, "run", "--dir", dir, "batch:deploy.bat", "--", "a.txt", "b.txt")
	require.NoError(t, err)
	require.Len(t, rec.Commands, 1)
}

func TestRunCmd_BadReference(t *testing.T) {
	_, _, err := runApp(t, "run", "not-a-ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected <type>:<name>")
}
