package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/msgsync/internal/snapshot"
)

func TestAssertHelpers(t *testing.T) {
	r := &Result{Stdout: "ok", Err: nil, ExitCode: 0}

	AssertSuccess(t, r)
	AssertExitCode(t, r, 0)
	AssertOutputEquals(t, r, "ok")
	AssertOutputNotContains(t, r, "error")
}

func TestAssertFileEquals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	AssertFileEquals(t, path, "content")
}

func TestFixtureSnapshotRoundTrip(t *testing.T) {
	f := NewFixture(t, t.TempDir())
	records := []snapshot.Record{
		{ID: 1, Content: "one", Timestamp: 10},
		{ID: 2, Content: "two", Timestamp: 20},
	}

	for _, name := range []string{"store.yaml", "store.json", "store.toml"} {
		f.WriteSnapshot(name, records...)
		if !f.Exists(name) {
			t.Fatalf("%s was not written", name)
		}
		AssertSnapshotEquals(t, f.LoadSnapshot(name), records...)
	}
}
