package detect

import (
	"context"
	"encoding/xml"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

const antGlob = "**/[Bb]uild.xml"

// antProject is the generic shape of an ant build file. Only the pieces
// needed for target extraction are mapped; everything else is ignored.
type antProject struct {
	XMLName xml.Name    `xml:"project"`
	Name    string      `xml:"name,attr"`
	Default string      `xml:"default,attr"`
	Targets []antTarget `xml:"target"`
}

type antTarget struct {
	Name string `xml:"name,attr"`
}

// AntDetector extracts targets from ant build files.
type AntDetector struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewAnt creates an ant detector.
func NewAnt(cfg *config.Config) *AntDetector {
	return &AntDetector{cfg: cfg, log: logging.Component("ant")}
}

func (d *AntDetector) Name() string { return "ant" }

// Globs returns the built-in build.xml pattern plus any configured
// additional include globs.
func (d *AntDetector) Globs() []string {
	globs := []string{antGlob}
	return append(globs, d.cfg.Ant.IncludeGlobs...)
}

func (d *AntDetector) ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error) {
	if !d.cfg.ToolEnabled(task.TypeAnt) {
		return nil, nil
	}

	var out []task.Descriptor
	for _, glob := range d.Globs() {
		files, err := scan.FindFiles(folder, glob, d.cfg.Exclude)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			out = append(out, d.readFile(folder, file)...)
		}
	}

	// Configured include globs may overlap the built-in pattern.
	return task.Dedupe(out), nil
}

func (d *AntDetector) ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor {
	if !d.cfg.ToolEnabled(task.TypeAnt) {
		return nil
	}
	return d.readFile(folder, path)
}

func (d *AntDetector) readFile(folder workspace.Folder, path string) []task.Descriptor {
	content, err := scan.ReadFile(path)
	if err != nil {
		d.log.Debug().Err(err).Str("file", path).Msg("skipping unreadable build file")
		return nil
	}

	var proj antProject
	if err := xml.Unmarshal([]byte(content), &proj); err != nil {
		d.log.Warn().Err(err).Str("file", path).Msg("malformed ant build file")
		return nil
	}
	if len(proj.Targets) == 0 {
		d.log.Debug().Str("file", path).Msg("ant project has no targets")
		return nil
	}

	fileName := filepath.Base(path)
	descs := make([]task.Descriptor, 0, len(proj.Targets))

	for _, target := range proj.Targets {
		if target.Name == "" {
			continue
		}

		args := []string{target.Name}
		if !strings.EqualFold(fileName, "build.xml") {
			args = []string{"-f", fileName, target.Name}
		}

		cmd := d.cfg.ToolPath(task.TypeAnt, config.WindowsExe("ant", "ant.bat"))
		if d.cfg.Ant.EnableAnsicon && d.cfg.Ant.AnsiconPath != "" {
			args = append([]string{cmd}, args...)
			cmd = d.cfg.Ant.AnsiconPath
		}

		desc := task.Descriptor{
			Type:         task.TypeAnt,
			Name:         target.Name,
			SourceFile:   path,
			RelativePath: folder.RelDir(path),
			Folder:       folder.Name,
			Invocation: task.Invocation{
				Command: cmd,
				Args:    args,
				Dir:     filepath.Dir(path),
			},
			Payload: task.AntPayload{Project: proj.Name, FileName: fileName},
		}

		if proj.Default != "" && proj.Default == target.Name {
			desc.Default = true
			desc.Display = target.Name + " - Default"
		}

		descs = append(descs, desc)
	}

	return descs
}
