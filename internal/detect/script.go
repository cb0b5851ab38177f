package detect

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/config"
	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

const scriptGlob = "**/*.{sh,py,rb,ps1,pl,bat,cmd,nsi}"

// positionalArgRe matches batch positional parameters (%1 through %9).
var positionalArgRe = regexp.MustCompile(`%[1-9]`)

type scriptSpec struct {
	ttype      task.Type
	exe        string
	windowsExe string
	args       []string
}

// scriptSpecs maps file extensions to their interpreter triple. The
// executable is overridable per type via config.
var scriptSpecs = map[string]scriptSpec{
	".sh":  {ttype: task.TypeBash, exe: "bash", windowsExe: "bash.exe"},
	".py":  {ttype: task.TypePython, exe: "python", windowsExe: "python.exe"},
	".rb":  {ttype: task.TypeRuby, exe: "ruby", windowsExe: "ruby.exe"},
	".ps1": {ttype: task.TypePowershell, exe: "powershell", windowsExe: "powershell.exe"},
	".pl":  {ttype: task.TypePerl, exe: "perl", windowsExe: "perl.exe"},
	".bat": {ttype: task.TypeBatch, exe: "cmd.exe", windowsExe: "cmd.exe", args: []string{"/c"}},
	".cmd": {ttype: task.TypeBatch, exe: "cmd.exe", windowsExe: "cmd.exe", args: []string{"/c"}},
	".nsi": {ttype: task.TypeNsis, exe: "makensis", windowsExe: "makensis.exe"},
}

// ScriptDetector turns standalone script files into run-the-whole-file
// tasks. Unlike the other detectors there is no sub-target extraction:
// every matching file yields exactly one descriptor.
type ScriptDetector struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewScript creates a script detector.
func NewScript(cfg *config.Config) *ScriptDetector {
	return &ScriptDetector{cfg: cfg, log: logging.Component("script")}
}

func (d *ScriptDetector) Name() string { return "script" }

func (d *ScriptDetector) Globs() []string { return []string{scriptGlob} }

func (d *ScriptDetector) ReadTasks(ctx context.Context, folder workspace.Folder) ([]task.Descriptor, error) {
	files, err := scan.FindFiles(folder, scriptGlob, d.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var out []task.Descriptor
	for _, file := range files {
		out = append(out, d.readFile(folder, file)...)
	}
	return out, nil
}

func (d *ScriptDetector) ReadFileTasks(ctx context.Context, folder workspace.Folder, path string) []task.Descriptor {
	return d.readFile(folder, path)
}

func (d *ScriptDetector) readFile(folder workspace.Folder, path string) []task.Descriptor {
	spec, ok := scriptSpecs[filepath.Ext(path)]
	if !ok {
		return nil
	}
	if !d.cfg.ToolEnabled(spec.ttype) {
		return nil
	}

	fileName := filepath.Base(path)
	exe := d.cfg.ToolPath(spec.ttype, config.WindowsExe(spec.exe, spec.windowsExe))
	args := append(append([]string{}, spec.args...), "./"+fileName)

	requiresArgs := false
	if spec.ttype == task.TypeBatch {
		content, err := scan.ReadFile(path)
		if err != nil {
			d.log.Debug().Err(err).Str("file", path).Msg("skipping unreadable script")
			return nil
		}
		requiresArgs = positionalArgRe.MatchString(content)
	}

	return []task.Descriptor{{
		Type:         spec.ttype,
		Name:         fileName,
		SourceFile:   path,
		RelativePath: folder.RelDir(path),
		Folder:       folder.Name,
		Invocation: task.Invocation{
			Command: exe,
			Args:    args,
			Dir:     filepath.Dir(path),
		},
		RequiresArgs: requiresArgs,
		Payload:      task.ScriptPayload{Interpreter: exe},
	}}
}
