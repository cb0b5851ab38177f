package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/task"
)

func TestScriptDetector_OneDescriptorPerFile(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "deploy.sh", "#!/bin/sh\necho deploy\n")
	writeFile(t, folder, "tools/gen.py", "print('gen')\n")
	writeFile(t, folder, "tools/setup.rb", "puts 'setup'\n")

	d := NewScript(testConfig(t))
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)
	require.Len(t, descs, 3)

	byName := map[string]task.Descriptor{}
	for _, desc := range descs {
		byName[desc.Name] = desc
	}

	sh := byName["deploy.sh"]
	assert.Equal(t, task.TypeBash, sh.Type)
	assert.Equal(t, []string{"./deploy.sh"}, sh.Invocation.Args)

	py := byName["gen.py"]
	assert.Equal(t, task.TypePython, py.Type)
	assert.Equal(t, "tools", py.RelativePath)

	rb := byName["setup.rb"]
	assert.Equal(t, task.TypeRuby, rb.Type)
}

func TestScriptDetector_BatchPositionalParams(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "args.bat", "@echo off\r\necho %1 %2\r\n")
	writeFile(t, folder, "noargs.bat", "@echo off\r\necho done\r\n")
	// %0 is the script name, not a positional parameter.
	writeFile(t, folder, "self.bat", "@echo off\r\necho %0\r\n")

	d := NewScript(testConfig(t))
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)
	require.Len(t, descs, 3)

	byName := map[string]task.Descriptor{}
	for _, desc := range descs {
		byName[desc.Name] = desc
	}

	assert.True(t, byName["args.bat"].RequiresArgs)
	assert.False(t, byName["noargs.bat"].RequiresArgs)
	assert.False(t, byName["self.bat"].RequiresArgs)

	bat := byName["args.bat"]
	assert.Equal(t, task.TypeBatch, bat.Type)
	assert.Equal(t, []string{"/c", "./args.bat"}, bat.Invocation.Args)
}

func TestScriptDetector_PerTypeDisable(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "a.sh", "echo a\n")
	writeFile(t, folder, "b.py", "print('b')\n")

	cfg := testConfig(t)
	cfg.Tools["python"] = config.ToolConfig{Enabled: boolPtr(false)}

	d := NewScript(cfg)
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "a.sh", descs[0].Name)
}

func TestScriptDetector_ExecutableOverride(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "a.py", "print('a')\n")

	cfg := testConfig(t)
	cfg.Tools["python"] = config.ToolConfig{Path: "/opt/python3/bin/python3"}

	d := NewScript(cfg)
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "/opt/python3/bin/python3", descs[0].Invocation.Command)
}
