// Package detect implements the per-format task detectors. Each detector
// scans workspace files matching its globs and extracts invocable task
// descriptors. A malformed or vanished file never aborts a scan; it is
// logged and contributes zero descriptors.
package detect

import (
	"context"

	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

// Detector scans one build-file format.
type Detector interface {
	// Name identifies the detector and keys its cache.
	Name() string

	// Globs returns the include patterns the detector scans and watches.
	Globs() []string

	// ReadTasks performs a full scan of one workspace folder.
	ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error)

	// ReadFileTasks re-reads a single file, used for incremental cache
	// updates. A file the detector cannot parse, or one whose type is
	// disabled, yields zero descriptors.
	ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor
}
