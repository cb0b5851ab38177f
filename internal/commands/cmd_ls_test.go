package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/tree"
)

func TestRenderTree_Placeholder(t *testing.T) {
	var buf strings.Builder
	RenderTree(&buf, &tree.Tree{Placeholder: true})
	assert.Contains(t, buf.String(), tree.PlaceholderLabel)
}

func TestRenderTree_FoldersFilesTasks(t *testing.T) {
	tr := &tree.Tree{
		Folders: []*tree.Folder{
			{
				Name: "proj",
				Files: []*tree.File{
					{
						Key:  "make:proj",
						Type: task.TypeMake,
						Name: "make",
						Tasks: []*tree.Task{
							{Descriptor: task.Descriptor{Type: task.TypeMake, Name: "build"}},
							{Descriptor: task.Descriptor{Type: task.TypeMake, Name: "test"}},
						},
					},
				},
			},
		},
	}

	var buf strings.Builder
	RenderTree(&buf, tr)
	out := buf.String()

	assert.Contains(t, out, "proj")
	assert.Contains(t, out, "make")
	assert.Contains(t, out, "build")
	assert.Contains(t, out, "test")
}

func TestRenderTree_GroupAndAnnotations(t *testing.T) {
	tr := &tree.Tree{
		Folders: []*tree.Folder{
			{
				Name: "proj",
				Files: []*tree.File{
					{
						Key:   "batch:proj",
						Type:  task.TypeBatch,
						Name:  "batch",
						Group: true,
						Children: []*tree.File{
							{
								Key:  "batch:proj//deploy.bat",
								Type: task.TypeBatch,
								Name: "deploy.bat",
								Tasks: []*tree.Task{
									{Descriptor: task.Descriptor{
										Type:         task.TypeBatch,
										Name:         "deploy.bat",
										RequiresArgs: true,
									}},
								},
							},
						},
					},
				},
			},
		},
	}

	var buf strings.Builder
	RenderTree(&buf, tr)
	out := buf.String()

	assert.Contains(t, out, "deploy.bat")
	assert.Contains(t, out, "(args required)")
}
