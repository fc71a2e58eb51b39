// Package snapshot reads and writes message collections on disk so the CLI
// can populate the local and remote stores.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/store"
)

// FilePerm is the permission for snapshot files written by Save (rw-r-----).
const FilePerm = 0o640

// Format is the encoding of a snapshot file.
type Format string

const (
	// FormatYAML is the default snapshot encoding.
	FormatYAML Format = "yaml"
	// FormatJSON encodes snapshots as JSON.
	FormatJSON Format = "json"
	// FormatTOML encodes snapshots as TOML.
	FormatTOML Format = "toml"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTOML:
		return true
	default:
		return false
	}
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q (valid: .yaml, .yml, .json, .toml)", filepath.Ext(path))
	}
}

// Record is one message as stored on disk.
type Record struct {
	ID        int    `json:"id" yaml:"id" toml:"id"`
	Content   string `json:"content" yaml:"content" toml:"content"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
}

// Snapshot is the on-disk document.
type Snapshot struct {
	Messages []Record `json:"messages" yaml:"messages" toml:"messages"`
}

// Load reads a snapshot file. Duplicate ids are kept in file order; when
// the records are put into a store the last one wins.
func Load(path string) (*Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", path, err)
	}

	snap, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", path, err)
	}

	logging.Debug("loaded snapshot",
		logging.Path(path),
		logging.Count(len(snap.Messages)),
	)
	return snap, nil
}

// Decode parses snapshot data in the given format.
func Decode(data []byte, format Format) (*Snapshot, error) {
	snap := &Snapshot{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, snap); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), snap); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}

	return snap, nil
}

// Encode serializes the snapshot in the given format.
func (s *Snapshot) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
}

// Save writes the snapshot to path, choosing the format by extension.
func (s *Snapshot) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := s.Encode(format)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", path, err)
	}

	logging.Debug("saved snapshot",
		logging.Path(path),
		logging.Count(len(s.Messages)),
	)
	return nil
}

// Put loads every record into st.
func (s *Snapshot) Put(st *store.Store) {
	for _, r := range s.Messages {
		st.Put(r.ID, r.Content, r.Timestamp)
	}
}

// FromStore builds a snapshot of st ordered by id.
func FromStore(st *store.Store) *Snapshot {
	msgs := st.Messages()
	snap := &Snapshot{Messages: make([]Record, 0, len(msgs))}
	for _, msg := range msgs {
		snap.Messages = append(snap.Messages, FromMessage(msg))
	}
	return snap
}

// FromMessage converts a stored message into a record.
func FromMessage(msg model.Message) Record {
	return Record{ID: msg.ID, Content: msg.Content(), Timestamp: msg.Timestamp}
}
