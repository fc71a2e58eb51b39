package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/msgsync/internal/backup"
	"github.com/klauern/msgsync/internal/ui"
	"github.com/klauern/msgsync/internal/util"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Manage backups of local snapshots",
		Commands: []*cli.Command{
			backupListCommand(),
			backupRestoreCommand(),
			backupPruneCommand(),
		},
	}
}

func backupManager(ctx context.Context) *backup.Manager {
	return backup.New(configFrom(ctx).BackupLocation())
}

func backupListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List backups, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Only list backups of this snapshot file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source := cmd.String("source")
			if source != "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				source = util.ExpandPath(source, cwd)
			}

			backups, err := backupManager(ctx).List(source)
			if err != nil {
				return err
			}

			w := out(cmd)
			if len(backups) == 0 {
				fmt.Fprintln(w, "No backups found")
				return nil
			}

			fmt.Fprintf(w, "%s  %s  %s  %s\n",
				ui.Header(ui.PadRight("ID", 28)),
				ui.Header(ui.PadRight("CREATED", 19)),
				ui.Header(ui.PadRight("MESSAGES", 8)),
				ui.Header("SOURCE"))
			for _, b := range backups {
				messages := "?"
				if b.Messages >= 0 {
					messages = fmt.Sprint(b.Messages)
				}
				fmt.Fprintf(w, "%s  %s  %s  %s\n",
					ui.PadRight(b.ID, 28),
					b.CreatedAt.Format("2006-01-02 15:04:05"),
					ui.PadRight(messages, 8),
					b.SourcePath)
			}
			return nil
		},
	}
}

func backupRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Restore a backup to its original snapshot path",
		UsageText: `msgsync backup restore <backup-id> [--to <path>]
   msgsync backup restore 20260101-120000-1a2b3c4d
   msgsync backup restore 20260101-120000-1a2b3c4d --to recovered.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "Write the backup here instead of its original path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 {
				return errors.New("backup id is required")
			}

			target := cmd.String("to")
			if target != "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				target = util.ExpandPath(target, cwd)
			}

			metadata, err := backupManager(ctx).Restore(args.Get(0), target)
			if err != nil {
				return err
			}

			if target == "" {
				target = metadata.SourcePath
			}
			fmt.Fprintln(out(cmd), ui.StatusSuccess(fmt.Sprintf("Restored %s to %s", metadata.ID, target)))
			return nil
		},
	}
}

func backupPruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete backups beyond backup.max_backups",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview what would be deleted without making changes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := backup.CleanupOptions{
				MaxBackups:     configFrom(ctx).Backup.MaxBackups,
				KeepAtLeastOne: true,
				DryRun:         cmd.Bool("dry-run"),
			}

			deleted, err := backupManager(ctx).Cleanup(opts)
			if err != nil {
				return err
			}

			verb := "Deleted"
			if opts.DryRun {
				verb = "Would delete"
			}
			fmt.Fprintf(out(cmd), "%s %d backup(s)\n", verb, len(deleted))
			for _, id := range deleted {
				fmt.Fprintf(out(cmd), "  - %s\n", id)
			}
			return nil
		},
	}
}
