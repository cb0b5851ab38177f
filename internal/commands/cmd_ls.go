package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskscout/internal/core/styles"
	"github.com/colonyops/taskscout/internal/core/workspace"
	"github.com/colonyops/taskscout/internal/engine"
	"github.com/colonyops/taskscout/internal/tree"
	"github.com/colonyops/taskscout/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "Discover and list tasks in workspace folders",
		UsageText: "taskscout ls [--json] [dirs...]",
		Description: `Scans the given directories (default: the current directory) for build
and automation tasks and prints them as a folder/file/task tree.

Use --json for machine-readable output, one descriptor per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output descriptors as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	folders, err := workspace.Resolve(c.Args().Slice())
	if err != nil {
		return err
	}

	eng := engine.New(cmd.flags.Config, folders)
	descs, err := eng.AllTasks(ctx)
	if err != nil {
		return fmt.Errorf("scan workspace: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, desc := range descs {
			if err := iojson.WriteLine(out, desc); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	RenderTree(out, tree.Build(folders, descs, cmd.flags.Config))
	return nil
}

// RenderTree prints the task tree with one indented line per node.
func RenderTree(w io.Writer, t *tree.Tree) {
	if t.Placeholder {
		fmt.Fprintln(w, styles.Muted.Render(tree.PlaceholderLabel))
		return
	}

	for _, folder := range t.Folders {
		fmt.Fprintln(w, styles.Folder.Render(folder.Name))
		for _, file := range folder.Files {
			renderFile(w, file, 1)
		}
	}
}

func renderFile(w io.Writer, f *tree.File, depth int) {
	indent := strings.Repeat("  ", depth)

	if f.Group {
		fmt.Fprintln(w, indent+styles.Group.Render(f.Name))
		for _, child := range f.Children {
			renderFile(w, child, depth+1)
		}
		return
	}

	label := f.Name
	if f.Path != "" {
		label += " " + styles.Muted.Render("("+f.Path+")")
	}
	fmt.Fprintln(w, indent+styles.File.Render(label))

	for _, t := range f.Tasks {
		line := indent + "  " + t.Label()
		if t.Descriptor.Default {
			line = indent + "  " + styles.Default.Render(t.Label())
		}
		if t.Descriptor.RequiresArgs {
			line += " " + styles.Warning.Render("(args required)")
		}
		fmt.Fprintln(w, line)
	}
}
