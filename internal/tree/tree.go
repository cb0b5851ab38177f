// Package tree builds the folder/file/task presentation hierarchy from
// a flat descriptor list.
package tree

import (
	"github.com/colonyops/taskscout/internal/core/task"
)

// PlaceholderLabel is shown when no tasks were discovered anywhere.
const PlaceholderLabel = "No tasks found"

// Tree is the root of the presentation model. It is rebuilt from scratch
// on every refresh; only the engine caches are maintained incrementally.
type Tree struct {
	Folders []*Folder
	// Placeholder is set when the whole workspace yielded nothing; the
	// consumer renders PlaceholderLabel instead of an empty list.
	Placeholder bool
}

// Folder is one workspace folder with at least one surviving file node.
type Folder struct {
	Name  string
	Files []*File
}

// File is either a concrete source file owning tasks, or a synthetic
// group owning the same-type files promoted under it.
type File struct {
	Key   string // composite identity: type:folder/relativePath[/fileName]
	Type  task.Type
	Name  string // file base name, or the type name for groups
	Path  string // directory relative to the workspace folder, "" = root
	Group bool

	Tasks    []*Task // populated for concrete files
	Children []*File // populated for groups
}

// Task is a leaf wrapping one descriptor plus live presentation state.
type Task struct {
	Descriptor task.Descriptor
	Running    bool
	Paused     bool
}

// Label returns the task's display name.
func (t *Task) Label() string { return t.Descriptor.DisplayName() }
