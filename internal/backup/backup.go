// Package backup keeps copies of snapshot files before msgsync rewrites them
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/snapshot"
	"github.com/klauern/msgsync/internal/util"
)

const (
	// BackupDirPerm is the permission for backup directories (rwxr-x---)
	BackupDirPerm = 0o750
	// BackupFilePerm is the permission for backup files (rw-r-----)
	BackupFilePerm = 0o640
)

// ErrNotFound is returned when a backup id is not in the index
var ErrNotFound = errors.New("backup not found")

// ErrCorrupted is returned when a backup file no longer matches its hash
var ErrCorrupted = errors.New("backup file corrupted")

// Manager stores backups and their index in one directory
type Manager struct {
	dir string
}

// New returns a manager rooted at dir. An empty dir uses the default
// backups directory.
func New(dir string) *Manager {
	if dir == "" {
		dir = util.MsgsyncBackupsPath()
	}
	return &Manager{dir: dir}
}

// Dir returns the backup directory
func (m *Manager) Dir() string {
	return m.dir
}

// Options configures backup behavior
type Options struct {
	Side        string // Store side the snapshot feeds
	RunID       string // Sync run that triggered the backup
	Description string
}

// Create copies sourcePath into the backup directory and records it in the index
func (m *Manager) Create(sourcePath string, opts Options) (*Metadata, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %q: %w", sourcePath, err)
	}

	// #nosec G304 - sourcePath is a snapshot path chosen by the user
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}

	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	hashStr := hashContent(content)
	backupID := uniqueID(index, time.Now().Format("20060102-150405-")+hashStr[:8])

	sideDir := filepath.Join(m.dir, sideDirName(opts.Side))
	if err := os.MkdirAll(sideDir, BackupDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(sideDir, backupID+filepath.Ext(sourcePath))
	if err := os.WriteFile(backupPath, content, BackupFilePerm); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	index.NextSeq++
	metadata := Metadata{
		ID:          backupID,
		Seq:         index.NextSeq,
		SourcePath:  sourcePath,
		BackupPath:  backupPath,
		Side:        opts.Side,
		RunID:       opts.RunID,
		CreatedAt:   time.Now(),
		Hash:        hashStr,
		Size:        sourceInfo.Size(),
		Messages:    countMessages(content, sourcePath),
		Description: opts.Description,
	}
	index.Backups[backupID] = metadata

	if err := m.SaveIndex(index); err != nil {
		return nil, fmt.Errorf("failed to add backup to index: %w", err)
	}

	logging.Debug("created backup",
		logging.Path(sourcePath),
		logging.Operation("backup"),
		logging.Count(metadata.Messages),
	)
	return &metadata, nil
}

// Restore writes a backup to targetPath, or to its original location when
// targetPath is empty
func (m *Manager) Restore(backupID, targetPath string) (*Metadata, error) {
	metadata, content, err := m.read(backupID)
	if err != nil {
		return nil, err
	}

	if targetPath == "" {
		targetPath = metadata.SourcePath
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), BackupDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}
	if err := os.WriteFile(targetPath, content, snapshot.FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write target file: %w", err)
	}

	logging.Debug("restored backup",
		logging.Path(targetPath),
		logging.Operation("restore"),
	)
	return metadata, nil
}

// List returns backups newest first, optionally only those of sourcePath
func (m *Manager) List(sourcePath string) ([]Metadata, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	backups := index.ListBackups()
	if sourcePath == "" {
		return backups, nil
	}

	filtered := make([]Metadata, 0, len(backups))
	for _, backup := range backups {
		if backup.SourcePath == sourcePath {
			filtered = append(filtered, backup)
		}
	}
	return filtered, nil
}

// Delete removes a backup file and its index entry
func (m *Manager) Delete(backupID string) error {
	index, err := m.LoadIndex()
	if err != nil {
		return fmt.Errorf("failed to load backup index: %w", err)
	}

	metadata, exists := index.Backups[backupID]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, backupID)
	}

	if err := os.Remove(metadata.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}

	delete(index.Backups, backupID)
	return m.SaveIndex(index)
}

// Verify checks that a backup file is intact and matches its hash
func (m *Manager) Verify(backupID string) error {
	_, _, err := m.read(backupID)
	return err
}

func (m *Manager) read(backupID string) (*Metadata, []byte, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	metadata, exists := index.Backups[backupID]
	if !exists {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, backupID)
	}

	// #nosec G304 - backup path comes from the index
	content, err := os.ReadFile(metadata.BackupPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	if got := hashContent(content); got != metadata.Hash {
		return nil, nil, fmt.Errorf("%w: hash mismatch (expected %s, got %s)", ErrCorrupted, metadata.Hash, got)
	}

	return &metadata, content, nil
}

func hashContent(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func uniqueID(index *Index, base string) string {
	id := base
	for n := 2; ; n++ {
		if _, exists := index.Backups[id]; !exists {
			return id
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

func sideDirName(side string) string {
	if side == "" {
		return "snapshots"
	}
	return side
}

func countMessages(content []byte, path string) int {
	format, err := snapshot.FormatFromPath(path)
	if err != nil {
		return -1
	}
	snap, err := snapshot.Decode(content, format)
	if err != nil {
		logging.Debug("backup source is not a readable snapshot",
			logging.Path(path),
			logging.Err(err),
		)
		return -1
	}
	return len(snap.Messages)
}
