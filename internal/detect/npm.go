package detect

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

const npmGlob = "**/package.json"

type packageJSON struct {
	Name    string            `json:"name"`
	Scripts map[string]string `json:"scripts"`
}

// NpmDetector extracts npm scripts from package.json files. Each script
// becomes one descriptor, plus an `install` helper descriptor per file;
// the tree builder keeps install out of normal grouping.
type NpmDetector struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewNpm creates an npm detector.
func NewNpm(cfg *config.Config) *NpmDetector {
	return &NpmDetector{cfg: cfg, log: logging.Component("npm")}
}

func (d *NpmDetector) Name() string { return "npm" }

func (d *NpmDetector) Globs() []string { return []string{npmGlob} }

func (d *NpmDetector) ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error) {
	if !d.cfg.ToolEnabled(task.TypeNpm) {
		return nil, nil
	}

	files, err := scan.FindFiles(folder, npmGlob, d.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var out []task.Descriptor
	for _, file := range files {
		out = append(out, d.readFile(folder, file)...)
	}
	return out, nil
}

func (d *NpmDetector) ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor {
	if !d.cfg.ToolEnabled(task.TypeNpm) {
		return nil
	}
	return d.readFile(folder, path)
}

func (d *NpmDetector) readFile(folder workspace.Folder, path string) []task.Descriptor {
	content, err := scan.ReadFile(path)
	if err != nil {
		d.log.Debug().Err(err).Str("file", path).Msg("skipping unreadable package.json")
		return nil
	}

	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		d.log.Warn().Err(err).Str("file", path).Msg("malformed package.json")
		return nil
	}

	exe := d.cfg.ToolPath(task.TypeNpm, config.WindowsExe("npm", "npm.cmd"))
	dir := filepath.Dir(path)
	base := func(name string, args ...string) task.Descriptor {
		return task.Descriptor{
			Type:         task.TypeNpm,
			Name:         name,
			SourceFile:   path,
			RelativePath: folder.RelDir(path),
			Folder:       folder.Name,
			Invocation:   task.Invocation{Command: exe, Args: args, Dir: dir},
		}
	}

	descs := []task.Descriptor{base("install", "install")}

	names := make([]string, 0, len(pkg.Scripts))
	for name := range pkg.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		desc := base(name, "run", name)
		desc.Payload = task.NpmPayload{Script: pkg.Scripts[name]}
		descs = append(descs, desc)
	}

	return descs
}
