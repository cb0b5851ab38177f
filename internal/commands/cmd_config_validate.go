package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskscout/internal/core/styles"
	"github.com/colonyops/taskscout/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "taskscout config validate [options]",
				Description: "Validates the configuration file, checking glob syntax, tool names, and executable overrides.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep()

	var fieldErrs criterio.FieldErrors
	if err != nil && !errors.As(err, &fieldErrs) {
		return err
	}

	if cmd.format == "json" {
		out := struct {
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors,omitempty"`
		}{Valid: err == nil}
		for _, fe := range fieldErrs {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", fe.Field, fe.Err))
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	if err == nil {
		fmt.Fprintln(c.Root().Writer, styles.Default.Render("config valid"))
		return nil
	}

	for _, fe := range fieldErrs {
		fmt.Fprintln(c.Root().Writer, styles.Warning.Render(fmt.Sprintf("%s: %v", fe.Field, fe.Err)))
	}
	return fmt.Errorf("config has %d error(s)", len(fieldErrs))
}
