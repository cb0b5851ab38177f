package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskscout/internal/core/task"
	"github.com/colonyops/taskscout/internal/core/workspace"
	"github.com/colonyops/taskscout/internal/engine"
	"github.com/colonyops/taskscout/pkg/executil"
)

type RunCmd struct {
	flags *Flags

	// Executor runs the resolved invocation; tests swap in a recorder.
	Executor executil.Executor

	// flags
	source string
	dir    string
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags, Executor: &executil.RealExecutor{}}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a discovered task",
		UsageText: "taskscout run [options] <type>:<name> [-- extra args]",
		Description: `Scans the workspace, resolves the task identified by <type>:<name>, and
executes its invocation in the task's directory.

Tasks that use positional parameters (batch %1..%9) require extra
arguments after --. Use --source to disambiguate when several files
define the same task name.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "source",
				Usage:       "substring of the source file to disambiguate duplicates",
				Destination: &cmd.source,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"C"},
				Usage:       "workspace directory to scan (default: current directory)",
				Destination: &cmd.dir,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("missing task reference; expected <type>:<name>")
	}
	ref := c.Args().First()
	extra := c.Args().Tail()

	ttype, name, found := strings.Cut(ref, ":")
	if !found || ttype == "" || name == "" {
		return fmt.Errorf("invalid task reference %q; expected <type>:<name>", ref)
	}

	var dirs []string
	if cmd.dir != "" {
		dirs = []string{cmd.dir}
	}
	folders, err := workspace.Resolve(dirs)
	if err != nil {
		return err
	}

	eng := engine.New(cmd.flags.Config, folders)
	descs, err := eng.AllTasks(ctx)
	if err != nil {
		return fmt.Errorf("scan workspace: %w", err)
	}

	desc, err := resolveTask(descs, task.Type(ttype), name, cmd.source)
	if err != nil {
		return err
	}

	if desc.RequiresArgs && len(extra) == 0 {
		return fmt.Errorf("task %s uses positional parameters; pass arguments after --", ref)
	}

	inv := desc.Invocation
	args := append(append([]string{}, inv.Args...), extra...)

	fmt.Fprintln(c.Root().Writer, inv.CommandLine())
	return cmd.Executor.RunDirStream(ctx, inv.Dir, c.Root().Writer, os.Stderr, inv.Command, args...)
}

// resolveTask finds the single descriptor matching type, name, and the
// optional source-file substring.
func resolveTask(descs []task.Descriptor, ttype task.Type, name, source string) (task.Descriptor, error) {
	var matches []task.Descriptor
	for _, d := range descs {
		if d.Type != ttype || d.Name != name {
			continue
		}
		if source != "" && !strings.Contains(d.SourceFile, source) {
			continue
		}
		matches = append(matches, d)
	}

	switch len(matches) {
	case 0:
		return task.Descriptor{}, fmt.Errorf("no task %s:%s found", ttype, name)
	case 1:
		return matches[0], nil
	default:
		files := make([]string, len(matches))
		for i, m := range matches {
			files[i] = m.SourceFile
		}
		return task.Descriptor{}, fmt.Errorf("task %s:%s is ambiguous across %s; use --source", ttype, name, strings.Join(files, ", "))
	}
}
