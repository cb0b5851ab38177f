package engine

import (
	"os"
	"sync"

	"github.com/colonyops/taskscout/internal/core/task"
)

// cache holds the descriptors from one detector's most recent scan.
//
// All mutation (full rebuild, per-file upsert, per-file removal, full
// invalidation) serializes through mu in arrival order, so an incremental
// update that lands during a rebuild applies after the rebuild's swap
// instead of being dropped. Readers get a copy and never observe a
// partially built list.
type cache struct {
	mu        sync.Mutex
	populated bool
	descs     []task.Descriptor
}

// populate fills the cache using build unless another caller already
// populated it. The build runs under the cache lock; that lock is the
// serialization point for all mutation of this detector's cache.
// Descriptors with the same identity collapse to the later one.
func (c *cache) populate(build func() ([]task.Descriptor, error)) ([]task.Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.populated {
		return append([]task.Descriptor(nil), c.descs...), nil
	}

	descs, err := build()
	if err != nil {
		return nil, err
	}

	c.descs = task.Dedupe(descs)
	c.populated = true
	return append([]task.Descriptor(nil), c.descs...), nil
}

// invalidate empties the cache; the next read repopulates lazily.
func (c *cache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.populated = false
	c.descs = nil
}

// upsertFile replaces every descriptor sourced from file with descs.
// Upserting into an unpopulated cache is a no-op; the next full scan
// will pick the file up anyway.
func (c *cache) upsertFile(file string, descs []task.Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return
	}

	kept := c.withoutFileLocked(file)
	c.descs = task.Dedupe(append(kept, descs...))
	c.sweepLocked()
}

// removeFile drops every descriptor sourced from file. Removing an
// unknown file is a tolerated no-op.
func (c *cache) removeFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return
	}

	c.descs = c.withoutFileLocked(file)
	c.sweepLocked()
}

func (c *cache) withoutFileLocked(file string) []task.Descriptor {
	kept := make([]task.Descriptor, 0, len(c.descs))
	for _, d := range c.descs {
		if d.SourceFile != file {
			kept = append(kept, d)
		}
	}
	return kept
}

// sweepLocked drops descriptors whose source file no longer exists.
func (c *cache) sweepLocked() {
	checked := map[string]bool{}
	kept := c.descs[:0]
	for _, d := range c.descs {
		exists, ok := checked[d.SourceFile]
		if !ok {
			_, err := os.Stat(d.SourceFile)
			exists = err == nil
			checked[d.SourceFile] = exists
		}
		if exists {
			kept = append(kept, d)
		}
	}
	c.descs = kept
}
