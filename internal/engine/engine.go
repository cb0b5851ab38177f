// Package engine owns the per-detector task caches and their lifecycle:
// lazy full scans, watcher-driven incremental updates, and aggregation
// of every enabled source into one descriptor list.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
	"github.com/colonyops/taskscout/internal/detect"
	"github.com/colonyops/taskscout/internal/watch"
)

// Engine holds one cache per detector and answers task queries from
// them, scanning lazily on first request.
type Engine struct {
	cfg       *config.Config
	folders   []workspace.Folder
	detectors []detect.Detector
	providers []Provider
	caches    map[string]*cache
	log       zerolog.Logger
}

// New creates an engine with the built-in detectors registered.
func New(cfg *config.Config, folders []workspace.Folder) *Engine {
	e := &Engine{
		cfg:     cfg,
		folders: folders,
		caches:  map[string]*cache{},
		log:     logging.Component("engine"),
	}

	for _, d := range []detect.Detector{
		detect.NewAnt(cfg),
		detect.NewGradle(cfg),
		detect.NewMake(cfg),
		detect.NewNpm(cfg),
		detect.NewScript(cfg),
	} {
		e.detectors = append(e.detectors, d)
		e.caches[d.Name()] = &cache{}
	}

	return e
}

// Folders returns the workspace folders the engine scans.
func (e *Engine) Folders() []workspace.Folder { return e.folders }

// RegisterProvider adds an external task source to aggregation.
func (e *Engine) RegisterProvider(p Provider) {
	e.providers = append(e.providers, p)
}

// ProvideTasks returns the cached descriptors for one detector,
// performing a full workspace scan if the cache is unpopulated.
func (e *Engine) ProvideTasks(ctx context.Context, name string) ([]task.Descriptor, error) {
	d, c, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	return c.populate(func() ([]task.Descriptor, error) {
		var all []task.Descriptor
		for _, folder := range e.folders {
			descs, err := d.ReadTasks(ctx, folder)
			if err != nil {
				return nil, fmt.Errorf("scan %s in %s: %w", d.Name(), folder.Name, err)
			}
			all = append(all, descs...)
		}
		e.log.Debug().Str("detector", d.Name()).Int("tasks", len(all)).Msg("cache populated")
		return all, nil
	})
}

// AllTasks merges descriptors from every detector and registered
// provider, filtered by per-type enable flags.
func (e *Engine) AllTasks(ctx context.Context) ([]task.Descriptor, error) {
	var all []task.Descriptor

	for _, d := range e.detectors {
		descs, err := e.ProvideTasks(ctx, d.Name())
		if err != nil {
			return nil, err
		}
		all = append(all, descs...)
	}

	for _, p := range e.providers {
		if !e.cfg.ToolEnabled(p.Type()) {
			continue
		}
		descs, err := p.ProvideTasks(ctx)
		if err != nil {
			// External providers degrade like malformed files: log and move on.
			e.log.Warn().Err(err).Str("type", string(p.Type())).Msg("provider failed")
			continue
		}
		for _, desc := range descs {
			if e.cfg.ToolEnabled(desc.Type) {
				all = append(all, desc)
			}
		}
	}

	return all, nil
}

// InvalidateCache invalidates one detector's cache. With an empty file
// the whole cache is dropped and repopulates lazily; with a file the
// cache is updated incrementally: a vanished file's descriptors are
// removed, otherwise the file is re-read and its descriptors replace
// the previous ones with the same source.
func (e *Engine) InvalidateCache(ctx context.Context, name, file string) error {
	d, c, err := e.lookup(name)
	if err != nil {
		return err
	}

	if file == "" {
		c.invalidate()
		e.log.Debug().Str("detector", name).Msg("cache invalidated")
		return nil
	}

	if _, statErr := os.Stat(file); statErr != nil {
		c.removeFile(file)
		e.log.Debug().Str("detector", name).Str("file", file).Msg("removed vanished file from cache")
		return nil
	}

	folder, ok := workspace.Owner(e.folders, file)
	if !ok {
		return nil
	}

	c.upsertFile(file, d.ReadFileTasks(ctx, folder, file))
	e.log.Debug().Str("detector", name).Str("file", file).Msg("cache updated")
	return nil
}

// HandleEvent routes a filesystem event to the caches whose detector
// globs match the changed file. It reports whether any cache changed.
func (e *Engine) HandleEvent(ctx context.Context, ev watch.Event) bool {
	folder, ok := workspace.Owner(e.folders, ev.Path)
	if !ok {
		return false
	}
	rel := filepath.ToSlash(mustRel(folder.Path, ev.Path))

	matched := false
	for _, d := range e.detectors {
		if !globsMatch(d.Globs(), rel) {
			continue
		}
		matched = true

		// Delete events reach InvalidateCache too: the stat there treats a
		// missing file as removal, which also covers rename races.
		if err := e.InvalidateCache(ctx, d.Name(), ev.Path); err != nil {
			e.log.Warn().Err(err).Str("detector", d.Name()).Msg("incremental update failed")
		}
	}

	return matched
}

func (e *Engine) lookup(name string) (detect.Detector, *cache, error) {
	c, ok := e.caches[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown detector %q", name)
	}
	for _, d := range e.detectors {
		if d.Name() == name {
			return d, c, nil
		}
	}
	return nil, nil, fmt.Errorf("unknown detector %q", name)
}

func globsMatch(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
