package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/msgsync/internal/config"
	"github.com/klauern/msgsync/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or create the msgsync configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					data, err := yaml.Marshal(configFrom(ctx))
					if err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}
					_, err = out(cmd).Write(data)
					return err
				},
			},
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("config file already exists at %s (use --force to overwrite)", config.FilePath())
					}
					if err := config.Default().Save(); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					fmt.Fprintln(out(cmd), ui.StatusSuccess("Wrote "+config.FilePath()))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file path",
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintln(out(cmd), config.FilePath())
					return nil
				},
			},
		},
	}
}
