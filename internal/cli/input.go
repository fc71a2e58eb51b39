package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/msgsync/internal/config"
	"github.com/klauern/msgsync/internal/export"
	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/snapshot"
	"github.com/klauern/msgsync/internal/sync"
	"github.com/klauern/msgsync/internal/util"
)

// formatTable is the plain terminal output format. Every other format is
// handled by the export package.
const formatTable = "table"

func snapshotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "Local snapshot file (.yaml, .json, .toml); defaults to snapshots.local_path",
		},
		&cli.StringFlag{
			Name:    "remote",
			Aliases: []string{"r"},
			Usage:   "Remote snapshot file (.yaml, .json, .toml); defaults to snapshots.remote_path",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, json, yaml, markdown); defaults to output.format",
	}
}

// snapshotPaths resolves the local and remote snapshot paths from flags,
// falling back to the config.
func snapshotPaths(cmd *cli.Command, cfg *config.Config) (localPath, remotePath string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}

	localPath = cfg.LocalPath(cwd)
	if v := cmd.String("local"); v != "" {
		localPath = util.ExpandPath(v, cwd)
	}
	remotePath = cfg.RemotePath(cwd)
	if v := cmd.String("remote"); v != "" {
		remotePath = util.ExpandPath(v, cwd)
	}

	if localPath == "" || remotePath == "" {
		return "", "", errors.New("both --local and --remote snapshots are required")
	}
	return localPath, remotePath, nil
}

// loadOptions controls how snapshots are loaded into an engine.
type loadOptions struct {
	// allowMissingLocal treats a missing local snapshot as an empty store.
	allowMissingLocal bool
}

// loadEngine builds an engine from the local and remote snapshots.
func loadEngine(ctx context.Context, cmd *cli.Command, opts loadOptions) (*sync.Engine, string, error) {
	cfg := configFrom(ctx)

	localPath, remotePath, err := snapshotPaths(cmd, cfg)
	if err != nil {
		return nil, "", err
	}

	log := logging.WithContext(ctx)
	eng := sync.NewEngine()
	if err := loadSide(log, eng, model.Local, localPath, opts.allowMissingLocal); err != nil {
		return nil, "", err
	}
	if err := loadSide(log, eng, model.Remote, remotePath, false); err != nil {
		return nil, "", err
	}

	log.Debug("loaded stores",
		logging.Operation("load"),
		logging.Count(eng.Local().Size()+eng.Remote().Size()),
	)
	return eng, localPath, nil
}

func loadSide(log *slog.Logger, eng *sync.Engine, side model.Side, path string, allowMissing bool) error {
	snap, err := snapshot.Load(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			log.Debug("snapshot missing, starting empty",
				logging.Side(side.String()),
				logging.Path(path),
			)
			return nil
		}
		return fmt.Errorf("failed to load %s snapshot: %w", side, err)
	}
	snap.Put(eng.Store(side))
	return nil
}

// outputFormat returns --format, or output.format from the config.
func outputFormat(ctx context.Context, cmd *cli.Command) (string, error) {
	format := cmd.String("format")
	if format == "" {
		format = configFrom(ctx).Output.Format
	}
	if format == formatTable {
		return formatTable, nil
	}
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return string(parsed), nil
}

// exporter returns the report exporter for a non-table format.
func exporter(format string) *export.Exporter {
	return export.New(export.Options{Format: export.Format(format), Pretty: true})
}
