package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/workspace"
	"github.com/colonyops/taskscout/internal/engine"
	"github.com/colonyops/taskscout/internal/tree"
	"github.com/colonyops/taskscout/internal/watch"
)

type WatchCmd struct {
	flags *Flags
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Watch workspace folders and re-list tasks on change",
		UsageText: "taskscout watch [dirs...]",
		Description: `Performs a full scan, then keeps the task caches fresh from filesystem
events: changed or created files are re-read incrementally, deleted
files drop out. The tree is rebuilt and re-printed after each change.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("watch-cmd")

	folders, err := workspace.Resolve(c.Args().Slice())
	if err != nil {
		return err
	}

	eng := engine.New(cmd.flags.Config, folders)

	watcher, err := watch.New(folders, cmd.flags.Config.Exclude)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	render := func() error {
		descs, err := eng.AllTasks(ctx)
		if err != nil {
			return fmt.Errorf("scan workspace: %w", err)
		}
		RenderTree(c.Root().Writer, tree.Build(folders, descs, cmd.flags.Config))
		return nil
	}

	if err := render(); err != nil {
		return err
	}

	// Single consumer loop: cache mutations per type apply in arrival
	// order, and tree rebuilds are strictly serial so a slow rebuild can
	// never clobber a newer one.
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}

			log.Debug().Str("op", ev.Op.String()).Str("path", ev.Path).Msg("filesystem event")
			if !eng.HandleEvent(ctx, ev) {
				continue
			}

			fmt.Fprintln(c.Root().Writer)
			if err := render(); err != nil {
				return err
			}
		}
	}
}
