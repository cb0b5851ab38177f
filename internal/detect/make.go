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

const makeGlob = "**/[Mm]akefile"

// MakeDetector extracts rule targets from makefiles. Like the gradle
// detector this is line scanning, not make evaluation: a target is the
// leading token of a column-zero `name:` line. Recipe lines, comments,
// variable assignments, `.`-special targets, and targets containing `$`
// are skipped.
type MakeDetector struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewMake creates a make detector.
func NewMake(cfg *config.Config) *MakeDetector {
	return &MakeDetector{cfg: cfg, log: logging.Component("make")}
}

func (d *MakeDetector) Name() string { return "make" }

func (d *MakeDetector) Globs() []string { return []string{makeGlob} }

func (d *MakeDetector) ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error) {
	if !d.cfg.ToolEnabled(task.TypeMake) {
		return nil, nil
	}

	files, err := scan.FindFiles(folder, makeGlob, d.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var out []task.Descriptor
	for _, file := range files {
		out = append(out, d.readFile(folder, file)...)
	}
	return out, nil
}

func (d *MakeDetector) ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor {
	if !d.cfg.ToolEnabled(task.TypeMake) {
		return nil
	}
	return d.readFile(folder, path)
}

func (d *MakeDetector) readFile(folder workspace.Folder, path string) []task.Descriptor {
	content, err := scan.ReadFile(path)
	if err != nil {
		d.log.Debug().Err(err).Str("file", path).Msg("skipping unreadable makefile")
		return nil
	}

	var descs []task.Descriptor
	seen := map[string]bool{}
	line := 0

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line++
		for _, name := range parseMakeTargets(scanner.Text()) {
			if seen[name] {
				continue
			}
			seen[name] = true

			descs = append(descs, task.Descriptor{
				Type:         task.TypeMake,
				Name:         name,
				SourceFile:   path,
				RelativePath: folder.RelDir(path),
				Folder:       folder.Name,
				Invocation: task.Invocation{
					Command: d.cfg.ToolPath(task.TypeMake, config.WindowsExe("make", "nmake")),
					Args:    []string{name},
					Dir:     filepath.Dir(path),
				},
				Payload: task.MakePayload{Line: line},
			})
		}
	}

	return descs
}

// parseMakeTargets returns the targets declared on one makefile line.
// A rule line may declare several targets before the colon.
func parseMakeTargets(line string) []string {
	if line == "" || line[0] == '\t' || line[0] == '#' || line[0] == ' ' {
		return nil
	}

	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return nil
	}
	// := and ::= are assignments; x=y: would be an assignment too.
	if eq := strings.IndexByte(line, '='); eq >= 0 && eq < colon {
		return nil
	}
	if colon+1 < len(line) && line[colon+1] == '=' {
		return nil
	}

	var targets []string
	for _, name := range strings.Fields(line[:colon]) {
		if strings.HasPrefix(name, ".") || strings.Contains(name, "$") {
			continue
		}
		targets = append(targets, name)
	}
	return targets
}
