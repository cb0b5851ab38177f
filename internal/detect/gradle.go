package detect

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

const gradleGlob = "**/*.gradle"

// GradleDetector extracts task names from gradle build scripts. Parsing
// is line-oriented, not a Groovy grammar: a declaration only counts when
// the `task` keyword, the name, and the opening `(` or `{` share a line.
// Multi-line declarations are a documented limitation.
type GradleDetector struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewGradle creates a gradle detector.
func NewGradle(cfg *config.Config) *GradleDetector {
	return &GradleDetector{cfg: cfg, log: logging.Component("gradle")}
}

func (d *GradleDetector) Name() string { return "gradle" }

func (d *GradleDetector) Globs() []string { return []string{gradleGlob} }

func (d *GradleDetector) ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error) {
	if !d.cfg.ToolEnabled(task.TypeGradle) {
		return nil, nil
	}

	files, err := scan.FindFiles(folder, gradleGlob, d.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var out []task.Descriptor
	for _, file := range files {
		out = append(out, d.readFile(folder, file)...)
	}
	return out, nil
}

func (d *GradleDetector) ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor {
	if !d.cfg.ToolEnabled(task.TypeGradle) {
		return nil
	}
	return d.readFile(folder, path)
}

func (d *GradleDetector) readFile(folder workspace.Folder, path string) []task.Descriptor {
	// Files at the workspace root belong to the host gradle provider.
	if folder.RelDir(path) == "" {
		return nil
	}

	content, err := scan.ReadFile(path)
	if err != nil {
		d.log.Debug().Err(err).Str("file", path).Msg("skipping unreadable gradle file")
		return nil
	}

	var descs []task.Descriptor
	line := 0
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line++
		name, ok := parseGradleTaskLine(scanner.Text())
		if !ok {
			continue
		}

		descs = append(descs, task.Descriptor{
			Type:         task.TypeGradle,
			Name:         name,
			SourceFile:   path,
			RelativePath: folder.RelDir(path),
			Folder:       folder.Name,
			Invocation: task.Invocation{
				Command: d.cfg.ToolPath(task.TypeGradle, config.WindowsExe("gradle", "gradle.bat")),
				Args:    []string{name},
				Dir:     filepath.Dir(path),
			},
			Payload: task.GradlePayload{Line: line},
		})
	}

	return descs
}

// parseGradleTaskLine extracts a task name from one line, or ok=false if
// the line is not a single-line task declaration.
func parseGradleTaskLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 5 || !strings.EqualFold(trimmed[:5], "task ") {
		return "", false
	}

	rest := strings.TrimSpace(trimmed[5:])
	idx := strings.IndexAny(rest, "({")
	if idx < 0 {
		return "", false
	}

	name := strings.TrimSpace(rest[:idx])
	if name == "" {
		return "", false
	}
	return name, true
}
