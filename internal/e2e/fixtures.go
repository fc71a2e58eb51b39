package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/msgsync/internal/snapshot"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteSnapshot saves records as a snapshot, in the format implied by the
// file extension.
func (f *Fixture) WriteSnapshot(relPath string, records ...snapshot.Record) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	snap := &snapshot.Snapshot{Messages: records}
	if err := snap.Save(fullPath); err != nil {
		f.t.Fatalf("failed to write snapshot %s: %v", fullPath, err)
	}

	return fullPath
}

// LoadSnapshot reads a snapshot relative to the fixture base directory.
func (f *Fixture) LoadSnapshot(relPath string) *snapshot.Snapshot {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	snap, err := snapshot.Load(fullPath)
	if err != nil {
		f.t.Fatalf("failed to load snapshot %s: %v", fullPath, err)
	}

	return snap
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(filepath.Join(f.baseDir, relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// TempFixture creates a fixture helper for a new temporary directory.
func (h *Harness) TempFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}
