// Package cli provides the command-line interface for msgsync.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/msgsync/internal/config"
	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

type configKey struct{}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "msgsync",
		Usage:   "Reconcile a local and a remote message store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a config file (default: ~/.msgsync/config.yaml)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			ctx = logging.NewContext(ctx, configureLogging(cmd))
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			configureColors(cmd, cfg)
			return context.WithValue(ctx, configKey{}, cfg), nil
		},
		Commands: []*cli.Command{
			diffCommand(),
			deltaCommand(),
			applyCommand(),
			resolveCommand(),
			statsCommand(),
			syncCommand(),
			browseCommand(),
			backupCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// configFrom returns the config loaded by the root Before hook.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// configureColors sets up color output from the --no-color flag and the
// output.color setting.
func configureColors(cmd *cli.Command, cfg *config.Config) {
	switch {
	case cmd.Bool("no-color"), cfg.Output.Color == "never":
		ui.DisableColors()
	case cfg.Output.Color == "always":
		ui.EnableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags and
// returns the configured logger.
func configureLogging(cmd *cli.Command) *slog.Logger {
	opts := logging.DefaultOptions()
	opts.Level = logging.LevelWarn

	if cmd.Bool("debug") {
		opts.Level = logging.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = logging.LevelInfo
	}

	if w := cmd.Root().ErrWriter; w != nil {
		opts.Output = w
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)
	logger.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}

// out returns the writer command output goes to.
func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}
