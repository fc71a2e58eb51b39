package e2e_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/klauern/msgsync/internal/backup"
	"github.com/klauern/msgsync/internal/e2e"
	"github.com/klauern/msgsync/internal/snapshot"
	"github.com/klauern/msgsync/internal/sync"
)

// seed writes the device snapshot as YAML and the server snapshot as TOML.
func seed(t *testing.T, h *e2e.Harness) (*e2e.Fixture, string, string) {
	t.Helper()
	f := h.TempFixture()

	local := f.WriteSnapshot("device.yaml",
		snapshot.Record{ID: 1, Content: "unchanged", Timestamp: 100},
		snapshot.Record{ID: 2, Content: "meet at noon", Timestamp: 100},
		snapshot.Record{ID: 3, Content: "local edit wins", Timestamp: 500},
		snapshot.Record{ID: 4, Content: "removed upstream", Timestamp: 100},
	)
	remote := f.WriteSnapshot("server.toml",
		snapshot.Record{ID: 1, Content: "unchanged", Timestamp: 100},
		snapshot.Record{ID: 2, Content: "meet at one", Timestamp: 200},
		snapshot.Record{ID: 3, Content: "stale remote", Timestamp: 400},
		snapshot.Record{ID: 5, Content: "new on server", Timestamp: 300},
	)
	return f, local, remote
}

// TestVersionCommand verifies the version command works correctly.
func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "msgsync version")
}

// TestConfigShowCommand verifies config show prints the default config.
func TestConfigShowCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "show")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "snapshots:")
	e2e.AssertOutputContains(t, result, "max_backups: 10")
}

// TestStatsJSON checks counts across mixed snapshot formats.
func TestStatsJSON(t *testing.T) {
	h := e2e.NewHarness(t)
	_, local, remote := seed(t, h)

	result := h.Run("stats", "-l", local, "-r", remote, "-f", "json")
	e2e.AssertSuccess(t, result)

	var stats sync.Stats
	if err := json.Unmarshal([]byte(result.Stdout), &stats); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, result.Stdout)
	}
	if stats.LocalCount != 4 || stats.RemoteCount != 4 || stats.Conflicts != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// TestDiffMarkdown checks the markdown diff report.
func TestDiffMarkdown(t *testing.T) {
	h := e2e.NewHarness(t)
	_, local, remote := seed(t, h)

	result := h.Run("diff", "-l", local, "-r", remote, "-f", "markdown")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "| Added | 1 | 5 |")
	e2e.AssertOutputContains(t, result, "| Modified | 2 | 2, 3 |")
	e2e.AssertOutputContains(t, result, "| Deleted | 1 | 4 |")
}

// TestDeltaThenApply feeds the delta printed for an id back into apply.
func TestDeltaThenApply(t *testing.T) {
	h := e2e.NewHarness(t)
	_, local, remote := seed(t, h)

	delta := h.Run("delta", "-l", local, "-r", remote, "--id", "2")
	e2e.AssertSuccess(t, delta)
	e2e.AssertOutputEquals(t, delta, "8:4:one\n")

	applied := h.Run("apply", "--content", "meet at noon", "--delta", strings.TrimSuffix(delta.Stdout, "\n"))
	e2e.AssertSuccess(t, applied)
	e2e.AssertOutputEquals(t, applied, "meet at one\n")
}

// TestResolveLastWriteWins checks both directions of the timestamp rule.
func TestResolveLastWriteWins(t *testing.T) {
	h := e2e.NewHarness(t)
	_, local, remote := seed(t, h)

	remoteWins := h.Run("--no-color", "resolve", "-l", local, "-r", remote, "--id", "2", "-f", "table")
	e2e.AssertSuccess(t, remoteWins)
	e2e.AssertOutputContains(t, remoteWins, "Remote wins (local 100, remote 200)")

	localWins := h.Run("--no-color", "resolve", "-l", local, "-r", remote, "--id", "3", "-f", "table")
	e2e.AssertSuccess(t, localWins)
	e2e.AssertOutputContains(t, localWins, "Local wins (local 500, remote 400)")
	e2e.AssertOutputContains(t, localWins, "local edit wins")

	missing := h.Run("resolve", "-l", local, "-r", remote, "--id", "5")
	e2e.AssertErrorContains(t, missing, "not present in both stores")
}

// TestSyncRoundTrip plans, writes, and restores a sync.
func TestSyncRoundTrip(t *testing.T) {
	h := e2e.NewHarness(t)
	f, local, remote := seed(t, h)
	original := f.ReadFile("device.yaml")

	plan := h.Run("--no-color", "sync", "-l", local, "-r", remote, "-f", "table")
	e2e.AssertSuccess(t, plan)
	e2e.AssertOutputContains(t, plan, "Pull:      1")
	e2e.AssertOutputContains(t, plan, "Patch:     1")
	e2e.AssertOutputContains(t, plan, "Keep:      1")
	e2e.AssertOutputContains(t, plan, "Delete:    1")
	e2e.AssertFileEquals(t, local, original)

	written := h.Run("--no-color", "sync", "-l", local, "-r", remote, "--write", "-f", "table")
	e2e.AssertSuccess(t, written)
	e2e.AssertOutputContains(t, written, "Updated")

	e2e.AssertSnapshotEquals(t, f.LoadSnapshot("device.yaml"),
		snapshot.Record{ID: 1, Content: "unchanged", Timestamp: 100},
		snapshot.Record{ID: 2, Content: "meet at one", Timestamp: 200},
		snapshot.Record{ID: 3, Content: "local edit wins", Timestamp: 500},
		snapshot.Record{ID: 5, Content: "new on server", Timestamp: 300},
	)

	// Only the id the local side won still differs.
	stats := h.Run("stats", "-l", local, "-r", remote, "-f", "json")
	e2e.AssertSuccess(t, stats)
	e2e.AssertOutputContains(t, stats, `"conflicts": 1`)

	backups, err := backup.New(h.BackupDir()).List(local)
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Messages != 4 {
		t.Errorf("backup should record 4 messages, got %d", backups[0].Messages)
	}

	restored := h.Run("backup", "restore", backups[0].ID)
	e2e.AssertSuccess(t, restored)
	e2e.AssertFileEquals(t, local, original)
}

// TestSyncFromEnvironmentPaths resolves both snapshots from the environment.
func TestSyncFromEnvironmentPaths(t *testing.T) {
	h := e2e.NewHarness(t)
	f, local, remote := seed(t, h)
	h.SetEnv("MSGSYNC_SNAPSHOTS_LOCAL_PATH", local)
	h.SetEnv("MSGSYNC_SNAPSHOTS_REMOTE_PATH", remote)

	result := h.Run("sync", "--write", "--skip-backup", "--keep-local-only", "-f", "yaml")
	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "success: true")

	snap := f.LoadSnapshot("device.yaml")
	if len(snap.Messages) != 5 {
		t.Errorf("expected the local-only id to be kept, got %d messages", len(snap.Messages))
	}
	if _, err := os.Stat(h.BackupDir()); err == nil {
		t.Error("--skip-backup should not create backups")
	}
}

// TestMissingSnapshots reports which side could not be loaded.
func TestMissingSnapshots(t *testing.T) {
	h := e2e.NewHarness(t)
	f, local, _ := seed(t, h)

	result := h.Run("diff", "-l", local, "-r", f.Path("absent.json"))
	e2e.AssertError(t, result)
	e2e.AssertExitCode(t, result, 1)
	e2e.AssertErrorContains(t, result, "remote snapshot")
}

// TestUnsupportedSnapshotExtension rejects files it cannot decode.
func TestUnsupportedSnapshotExtension(t *testing.T) {
	h := e2e.NewHarness(t)
	f, _, remote := seed(t, h)
	local := f.WriteFile("device.txt", "id=1")

	result := h.Run("diff", "-l", local, "-r", remote)
	e2e.AssertErrorContains(t, result, "unsupported snapshot extension")
}
