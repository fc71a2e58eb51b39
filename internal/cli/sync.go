package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/msgsync/internal/backup"
	"github.com/klauern/msgsync/internal/config"
	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/progress"
	"github.com/klauern/msgsync/internal/snapshot"
	"github.com/klauern/msgsync/internal/sync"
	"github.com/klauern/msgsync/internal/ui"
	"github.com/klauern/msgsync/internal/ui/tui"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Plan, and optionally apply, the changes that bring the local store up to date",
		UsageText: `msgsync sync [options]
   msgsync sync --local device.yaml --remote server.yaml
   msgsync sync --write`,
		Description: `Build a sync plan from the diff between the two snapshots:

   added ids are pulled with their full content, modified ids are resolved
   by last write wins and patched with a delta when the remote side wins,
   and deleted ids are removed.

   Without --write the plan is only printed. With --write it is applied to
   a copy of the local store, the local snapshot is backed up, and the
   result is written back to the local snapshot.`,
		Flags: append(snapshotFlags(),
			formatFlag(),
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Apply the plan and rewrite the local snapshot",
			},
			&cli.BoolFlag{
				Name:  "keep-local-only",
				Usage: "Keep ids that exist only locally instead of deleting them",
			},
			&cli.BoolFlag{
				Name:  "skip-backup",
				Usage: "Skip the backup of the local snapshot before writing",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(ctx, cmd)
			if err != nil {
				return err
			}

			write := cmd.Bool("write")
			eng, localPath, err := loadEngine(ctx, cmd, loadOptions{allowMissingLocal: write})
			if err != nil {
				return err
			}

			plan := eng.BuildPlan(sync.PlanOptions{KeepLocalOnly: cmd.Bool("keep-local-only")})
			w := out(cmd)

			if !write {
				if format != formatTable {
					return exporter(format).Plan(plan, w)
				}
				fmt.Fprint(w, plan.Summary())
				if plan.ChangesLocal() {
					fmt.Fprintln(w, ui.Dim(fmt.Sprintf("\nRun with --write to update %s", localPath)))
				}
				return nil
			}

			if format == formatTable {
				fmt.Fprint(w, plan.Summary())
			}
			if !plan.ChangesLocal() {
				logging.WithContext(ctx).Debug("plan leaves local snapshot unchanged",
					logging.Path(localPath),
					logging.Count(len(plan.Changes)),
				)
				if format == formatTable {
					msg := "Stores are in sync"
					if !plan.IsEmpty() {
						msg = "Local snapshot already up to date"
					}
					fmt.Fprintln(w, ui.StatusSuccess(msg))
				}
				return nil
			}

			return writePlan(ctx, cmd, eng, plan, localPath, format)
		},
	}
}

func writePlan(ctx context.Context, cmd *cli.Command, eng *sync.Engine, plan *sync.Plan, localPath, format string) error {
	cfg := configFrom(ctx)
	w := out(cmd)
	log := logging.WithContext(ctx).With(slog.String("run_id", plan.RunID))

	if cfg.Backup.Enabled && !cmd.Bool("skip-backup") {
		backupLocal(log, cmd, cfg, localPath, plan.RunID)
	}

	target := eng.Local().Clone()
	bar := progress.New(progress.Options{
		Max:         len(plan.Changes),
		Description: "Applying",
		Writer:      cmd.Root().ErrWriter,
	})
	result := plan.Apply(target, sync.ApplyOptions{
		Fetch:    eng.Remote().Get,
		Progress: bar.Report,
	})
	if err := bar.Finish(); err != nil {
		log.Debug("failed to finish progress bar", logging.Err(err))
	}

	if format == formatTable {
		fmt.Fprint(w, "\n"+result.Summary())
	} else if err := exporter(format).ApplyResult(result, w); err != nil {
		return err
	}

	if !result.Success() {
		return fmt.Errorf("%d change(s) failed to apply; %s was not modified", len(result.Failed()), localPath)
	}

	if err := snapshot.FromStore(target).Save(localPath); err != nil {
		return err
	}

	log.Info("local snapshot updated",
		logging.Path(localPath),
		logging.Count(target.Size()),
	)
	if format == formatTable {
		fmt.Fprintln(w, ui.StatusSuccess(fmt.Sprintf("Updated %s (%d messages)", localPath, target.Size())))
	}
	return nil
}

// backupLocal copies the local snapshot aside before it is rewritten.
// Failures are reported but do not stop the sync.
func backupLocal(log *slog.Logger, cmd *cli.Command, cfg *config.Config, localPath, runID string) {
	if _, err := os.Stat(localPath); err != nil {
		log.Debug("no local snapshot to back up", logging.Path(localPath))
		return
	}

	mgr := backup.New(cfg.BackupLocation())
	metadata, err := mgr.Create(localPath, backup.Options{
		Side:        model.Local.String(),
		RunID:       runID,
		Description: "before sync",
	})
	if err != nil {
		log.Warn("backup failed", logging.Path(localPath), logging.Err(err))
		fmt.Fprintln(cmd.Root().ErrWriter, ui.StatusWarning(fmt.Sprintf("backup failed: %v", err)))
		return
	}
	log.Info("backed up local snapshot",
		logging.Path(metadata.BackupPath),
		logging.Operation("backup"),
	)

	deleted, err := mgr.Cleanup(backup.CleanupOptions{
		MaxBackups:     cfg.Backup.MaxBackups,
		KeepAtLeastOne: true,
	})
	if err != nil {
		log.Warn("backup cleanup failed", logging.Err(err))
		return
	}
	if len(deleted) > 0 {
		log.Debug("pruned old backups", logging.Count(len(deleted)))
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the sync plan interactively",
		Flags: append(snapshotFlags(),
			&cli.BoolFlag{
				Name:  "keep-local-only",
				Usage: "Keep ids that exist only locally instead of deleting them",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, _, err := loadEngine(ctx, cmd, loadOptions{})
			if err != nil {
				return err
			}

			plan := eng.BuildPlan(sync.PlanOptions{KeepLocalOnly: cmd.Bool("keep-local-only")})
			if plan.IsEmpty() {
				fmt.Fprintln(out(cmd), ui.StatusSuccess("Stores are in sync"))
				return nil
			}

			return tui.RunBrowse(eng, plan, configFrom(ctx).Output.PreviewWidth)
		},
	}
}
