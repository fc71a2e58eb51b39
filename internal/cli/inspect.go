package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/sync"
	"github.com/klauern/msgsync/internal/ui"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Show which ids were added, modified, or deleted remotely",
		UsageText: `msgsync diff [options]
   msgsync diff --local device.yaml --remote server.yaml
   msgsync diff --format json`,
		Flags: append(snapshotFlags(), formatFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(ctx, cmd)
			if err != nil {
				return err
			}
			eng, _, err := loadEngine(ctx, cmd, loadOptions{})
			if err != nil {
				return err
			}

			diff := eng.ComputeDiff().Sorted()
			if format != formatTable {
				return exporter(format).Diff(diff, out(cmd))
			}
			printDiff(cmd, eng, diff, configFrom(ctx).Output.PreviewWidth)
			return nil
		},
	}
}

func printDiff(cmd *cli.Command, eng *sync.Engine, diff sync.Diff, width int) {
	w := out(cmd)
	if diff.IsEmpty() {
		fmt.Fprintln(w, ui.StatusSuccess("Stores are in sync"))
		return
	}

	rows := []struct {
		kind sync.ChangeKind
		ids  []int
		side model.Side
	}{
		{sync.ChangeAdded, diff.Added, model.Remote},
		{sync.ChangeModified, diff.Modified, model.Remote},
		{sync.ChangeDeleted, diff.Deleted, model.Local},
	}

	fmt.Fprintf(w, "%s  %s  %s\n", ui.Header(" "), ui.Header(ui.PadRight("ID", 8)), ui.Header("CONTENT"))
	for _, row := range rows {
		for _, id := range row.ids {
			msg, _ := eng.Store(row.side).Get(id)
			fmt.Fprintf(w, "%s  %s  %s\n",
				ui.ChangeMarker(string(row.kind)),
				ui.PadRight(strconv.Itoa(id), 8),
				ui.Preview(msg.Content(), width),
			)
		}
	}

	fmt.Fprintf(w, "\n%d added, %d modified, %d deleted\n", len(diff.Added), len(diff.Modified), len(diff.Deleted))
}

func deltaCommand() *cli.Command {
	return &cli.Command{
		Name:  "delta",
		Usage: "Print the delta that turns the local version of a message into the remote one",
		UsageText: `msgsync delta --id <id> [options]
   msgsync delta --id 42`,
		Flags: append(snapshotFlags(),
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Message id. Required.",
				Required: true,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			eng, _, err := loadEngine(ctx, cmd, loadOptions{})
			if err != nil {
				return err
			}

			id := cmd.Int("id")
			delta := eng.GenerateDelta(id)
			if delta == "" {
				logging.Warn("message is not present in both stores", logging.MessageID(id))
				return fmt.Errorf("message %d is not present in both stores", id)
			}

			fmt.Fprintln(out(cmd), delta)
			return nil
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Apply an encoded delta to a piece of content",
		UsageText: `msgsync apply --content <text> --delta <P:del:ins> [--strict]
   msgsync apply --content "hello world" --delta "6:5:there"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "content",
				Usage: "Content to patch",
			},
			&cli.StringFlag{
				Name:     "delta",
				Usage:    "Encoded delta (prefix:deleteCount:insert). Required.",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on a malformed delta instead of leaving the content unchanged",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			content, delta := cmd.String("content"), cmd.String("delta")

			if cmd.Bool("strict") {
				patched, err := sync.ApplyDeltaStrict(content, delta)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), patched)
				return nil
			}

			fmt.Fprintln(out(cmd), sync.ApplyDelta(content, delta))
			return nil
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a modified message by last write wins",
		UsageText: `msgsync resolve --id <id> [options]
   msgsync resolve --id 42 --format yaml`,
		Flags: append(snapshotFlags(),
			formatFlag(),
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Message id. Required.",
				Required: true,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(ctx, cmd)
			if err != nil {
				return err
			}
			eng, _, err := loadEngine(ctx, cmd, loadOptions{})
			if err != nil {
				return err
			}

			res := eng.ResolveConflict(cmd.Int("id"))
			if format != formatTable {
				return exporter(format).Resolution(res, out(cmd))
			}
			return printResolution(cmd, res)
		},
	}
}

func printResolution(cmd *cli.Command, res sync.Resolution) error {
	if !res.Resolved {
		return fmt.Errorf("message %d is not present in both stores", res.ID)
	}

	w := out(cmd)
	fmt.Fprintf(w, "%s wins (local %d, remote %d)\n",
		ui.Bold(res.WinningSide().DisplayName()), res.LocalTimestamp, res.RemoteTimestamp)
	fmt.Fprintln(w, res.Winner)
	return nil
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show store sizes and the number of conflicting ids",
		Flags: append(snapshotFlags(), formatFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(ctx, cmd)
			if err != nil {
				return err
			}
			eng, _, err := loadEngine(ctx, cmd, loadOptions{})
			if err != nil {
				return err
			}

			stats := eng.Stats()
			if format != formatTable {
				return exporter(format).Stats(stats, out(cmd))
			}

			w := out(cmd)
			fmt.Fprintf(w, "%s %d\n", ui.Header("Local:    "), stats.LocalCount)
			fmt.Fprintf(w, "%s %d\n", ui.Header("Remote:   "), stats.RemoteCount)
			fmt.Fprintf(w, "%s %d\n", ui.Header("Conflicts:"), stats.Conflicts)
			return nil
		},
	}
}
