package backup

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Metadata contains metadata about a single snapshot backup
type Metadata struct {
	ID          string    `json:"id"`          // Unique backup identifier (timestamp-based)
	Seq         int       `json:"seq"`         // Creation order within the index
	SourcePath  string    `json:"source_path"` // Snapshot file that was backed up
	BackupPath  string    `json:"backup_path"` // Path to backup file
	Side        string    `json:"side"`        // Store side the snapshot feeds (local, remote)
	RunID       string    `json:"run_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Hash        string    `json:"hash"` // SHA256 hash of content
	Size        int64     `json:"size"`
	Messages    int       `json:"messages"` // Records in the snapshot, -1 if unreadable
	Description string    `json:"description,omitempty"`
}

// Index maintains an index of all backups in a backup directory
type Index struct {
	Version string              `json:"version"`
	Updated time.Time           `json:"updated"`
	NextSeq int                 `json:"next_seq"`
	Backups map[string]Metadata `json:"backups"` // Key: backup ID
}

const (
	// IndexVersion is the current version of the backup index format
	IndexVersion = "1.0"
	// IndexFilename is the name of the index file
	IndexFilename = "index.json"
)

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, IndexFilename)
}

// LoadIndex loads the backup index from disk
func (m *Manager) LoadIndex() (*Index, error) {
	// #nosec G304 - index path is derived from the configured backup directory
	data, err := os.ReadFile(m.indexPath())
	if os.IsNotExist(err) {
		return &Index{
			Version: IndexVersion,
			Updated: time.Now(),
			Backups: make(map[string]Metadata),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	if index.Backups == nil {
		index.Backups = make(map[string]Metadata)
	}

	return &index, nil
}

// SaveIndex saves the backup index to disk
func (m *Manager) SaveIndex(index *Index) error {
	if err := os.MkdirAll(m.dir, BackupDirPerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	index.Updated = time.Now()

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	// #nosec G306 - index.json is metadata and can be group-readable
	if err := os.WriteFile(m.indexPath(), data, BackupFilePerm); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// ListBackups returns all backups, newest first
func (idx *Index) ListBackups() []Metadata {
	backups := make([]Metadata, 0, len(idx.Backups))
	for _, backup := range idx.Backups {
		backups = append(backups, backup)
	}
	sortNewestFirst(backups)
	return backups
}

func sortNewestFirst(backups []Metadata) {
	slices.SortFunc(backups, func(a, b Metadata) int {
		return cmp.Compare(b.Seq, a.Seq)
	})
}
