package engine

import (
	"context"

	"github.com/colonyops/taskscout/internal/core/task"
)

// Provider supplies descriptors for task types produced outside the
// built-in detectors (grunt, gulp, tsc). Provider results join
// aggregation subject to the same per-type enable flags but are not
// cached or watched here; their owners maintain freshness.
type Provider interface {
	Type() task.Type
	ProvideTasks(ctx context.Context) ([]task.Descriptor, error)
}
