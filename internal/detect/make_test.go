package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskscout/internal/core/config"
)

const makefile = `# tools
CC = gcc
CFLAGS := -Wall

.PHONY: all clean

all: build test

build:
	$(CC) -o app main.c

test: build
	./app --test

$(OBJDIR)/%.o:
	$(CC) -c $<

clean:
	rm -f app
`

func TestMakeDetector_ExtractsTargets(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "Makefile", makefile)

	d := NewMake(testConfig(t))
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)

	names := make([]string, len(descs))
	for i, desc := range descs {
		names[i] = desc.Name
		assert.Equal(t, []string{desc.Name}, desc.Invocation.Args)
	}
	assert.ElementsMatch(t, []string{"all", "build", "test", "clean"}, names)
}

func TestParseMakeTargets(t *testing.T) {
	cases := []struct {
		line    string
		targets []string
	}{
		{"build: dep", []string{"build"}},
		{"a b: dep", []string{"a", "b"}},
		{"\trecipe: not-a-target", nil},
		{"# build: comment", nil},
		{"CC = gcc", nil},
		{"VAR := x", nil},
		{".PHONY: all", nil},
		{"$(X)/%.o: y", nil},
		{": nothing", nil},
		{"no colon here", nil},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.targets, parseMakeTargets(tc.line), "line %q", tc.line)
	}
}

func TestMakeDetector_DisabledReadFileTasks(t *testing.T) {
	folder := testFolder(t)
	cfg := testConfig(t)
	cfg.Tools["make"] = config.ToolConfig{Enabled: boolPtr(false)}
	path := writeFile(t, folder, "Makefile", "build:\n")

	d := NewMake(cfg)
	assert.Empty(t, d.ReadFileTasks(context.Background(), folder, path))
}

func TestMakeDetector_LowercaseMakefileGlob(t *testing.T) {
	folder := testFolder(t)
	writeFile(t, folder, "sub/makefile", "deploy:\n\techo hi\n")

	d := NewMake(testConfig(t))
	descs, err := d.ReadTasks(context.Background(), folder)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "deploy", descs[0].Name)
	assert.Equal(t, "sub", descs[0].RelativePath)
}
