package backup

import (
	"fmt"
	"time"
)

// CleanupOptions configures backup cleanup behavior
type CleanupOptions struct {
	// MaxBackups limits the number of backups kept per source file (0 = unlimited)
	MaxBackups int

	// MaxAge is the maximum age of backups to keep (0 = unlimited)
	MaxAge time.Duration

	// KeepAtLeastOne keeps the newest backup of each source file regardless of age
	KeepAtLeastOne bool

	// DryRun previews what would be deleted without actually deleting
	DryRun bool
}

// DefaultCleanupOptions returns sensible defaults for cleanup
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		MaxBackups:     10,
		MaxAge:         30 * 24 * time.Hour,
		KeepAtLeastOne: true,
	}
}

// Cleanup removes old backups and returns the ids it removed (or would
// remove, in dry-run mode)
func (m *Manager) Cleanup(opts CleanupOptions) ([]string, error) {
	index, err := m.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load backup index: %w", err)
	}

	groups := make(map[string][]Metadata)
	for _, backup := range index.Backups {
		groups[backup.SourcePath] = append(groups[backup.SourcePath], backup)
	}

	var toDelete []string
	now := time.Now()

	for _, backups := range groups {
		sortNewestFirst(backups)

		for i, backup := range backups {
			expired := opts.MaxAge > 0 && now.Sub(backup.CreatedAt) > opts.MaxAge
			overLimit := opts.MaxBackups > 0 && i >= opts.MaxBackups
			if i == 0 && opts.KeepAtLeastOne {
				continue
			}
			if expired || overLimit {
				toDelete = append(toDelete, backup.ID)
			}
		}
	}

	if opts.DryRun {
		return toDelete, nil
	}

	deleted := make([]string, 0, len(toDelete))
	for _, backupID := range toDelete {
		if err := m.Delete(backupID); err != nil {
			return deleted, fmt.Errorf("failed to delete backup %q: %w", backupID, err)
		}
		deleted = append(deleted, backupID)
	}

	return deleted, nil
}
