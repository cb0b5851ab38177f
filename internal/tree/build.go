package tree

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

// installTypes are the types whose convention defines an `install`
// helper task. The install descriptor is driven by the install runner
// directly and stays out of normal grouping.
var installTypes = map[task.Type]bool{
	task.TypeNpm: true,
}

// Build groups the merged descriptor list into the folder/file/task
// hierarchy. Descriptors of disabled types, unknown workspace folders,
// and conventional install helpers are skipped. The result is a fresh
// value every time; callers own the reference swap.
func Build(folders []workspace.Folder, descs []task.Descriptor, cfg *config.Config) *Tree {
	b := &builder{
		cfg:     cfg,
		known:   map[string]bool{},
		folders: map[string]*Folder{},
		files:   map[string]*File{},
	}
	for _, f := range folders {
		b.known[f.Name] = true
	}

	for _, desc := range descs {
		b.place(desc)
	}

	return b.finish()
}

type builder struct {
	cfg     *config.Config
	known   map[string]bool
	order   []string // folder names in first-seen order
	folders map[string]*Folder
	files   map[string]*File
}

// place adds one descriptor as a task leaf, creating its folder and
// file nodes on demand.
func (b *builder) place(desc task.Descriptor) {
	if !b.cfg.ToolEnabled(desc.Type) {
		return
	}
	if !b.known[desc.Folder] {
		return
	}
	if installTypes[desc.Type] && desc.Name == "install" {
		return
	}

	relPath, ok := b.relPath(desc)
	if !ok {
		return
	}

	key := fmt.Sprintf("%s:%s/%s", desc.Type, desc.Folder, relPath)
	fileName := ""
	if desc.SourceFile != "" {
		fileName = filepath.Base(desc.SourceFile)
		key += "/" + fileName
	}

	folder := b.folders[desc.Folder]
	if folder == nil {
		folder = &Folder{Name: desc.Folder}
		b.folders[desc.Folder] = folder
		b.order = append(b.order, desc.Folder)
	}

	file := b.files[key]
	if file == nil {
		name := fileName
		if name == "" {
			name = string(desc.Type)
		}
		file = &File{Key: key, Type: desc.Type, Name: name, Path: relPath}
		b.files[key] = file
		folder.Files = append(folder.Files, file)
	}

	file.Tasks = append(file.Tasks, &Task{Descriptor: desc})
}

// relPath resolves the grouping directory for a descriptor. Tsc-style
// descriptors embed their path in the display name after " - "; that
// path wins, and an excluded derived directory suppresses the
// descriptor entirely.
func (b *builder) relPath(desc task.Descriptor) (string, bool) {
	if desc.Type != task.TypeTsc {
		return desc.RelativePath, true
	}

	_, embedded, found := strings.Cut(desc.DisplayName(), " - ")
	if !found {
		return desc.RelativePath, true
	}
	if scan.IsExcluded(embedded, b.cfg.Exclude) {
		return "", false
	}

	dir := path.Dir(embedded)
	if dir == "." {
		dir = ""
	}
	return dir, true
}

// finish sorts, promotes same-type sibling files into groups, and drops
// empty folders.
func (b *builder) finish() *Tree {
	t := &Tree{}

	for _, name := range b.order {
		folder := b.folders[name]

		for _, file := range folder.Files {
			sortTasks(file.Tasks)
		}
		sortFiles(folder.Files)

		folder.Files = promote(name, folder.Files)
		sortFiles(folder.Files)

		if len(folder.Files) > 0 {
			t.Folders = append(t.Folders, folder)
		}
	}

	if len(t.Folders) == 0 {
		t.Placeholder = true
	}
	return t
}

// promote replaces every run of two or more consecutive same-type files
// with one synthetic group owning them. Grouping is adjacency-based; the
// preceding type sort makes same-type files adjacent.
func promote(folderName string, files []*File) []*File {
	groups := map[task.Type]*File{}
	var out []*File

	for i := 0; i < len(files); {
		j := i + 1
		for j < len(files) && files[j].Type == files[i].Type {
			j++
		}

		if j-i < 2 {
			out = append(out, files[i])
			i = j
			continue
		}

		ftype := files[i].Type
		group := groups[ftype]
		if group == nil {
			group = &File{
				Key:   fmt.Sprintf("%s:%s", ftype, folderName),
				Type:  ftype,
				Name:  string(ftype),
				Group: true,
			}
			groups[ftype] = group
			out = append(out, group)
		}
		group.Children = append(group.Children, files[i:j]...)
		i = j
	}

	return out
}

func sortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return strings.ToLower(tasks[i].Label()) < strings.ToLower(tasks[j].Label())
	})
}

func sortFiles(files []*File) {
	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(string(files[i].Type)) < strings.ToLower(string(files[j].Type))
	})
}
