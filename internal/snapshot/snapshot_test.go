package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/store"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]struct {
		path    string
		want    Format
		wantErr bool
	}{
		"yaml":         {path: "local.yaml", want: FormatYAML},
		"yml":          {path: "dir/local.YML", want: FormatYAML},
		"json":         {path: "remote.json", want: FormatJSON},
		"toml":         {path: "remote.toml", want: FormatTOML},
		"unknown":      {path: "remote.csv", wantErr: true},
		"no extension": {path: "remote", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSaveLoad_AllFormats(t *testing.T) {
	original := &Snapshot{Messages: []Record{
		{ID: 1, Content: "hello", Timestamp: 100},
		{ID: 2, Content: "multi\nline: with colon", Timestamp: 200},
		{ID: 3, Content: "", Timestamp: 0},
	}}

	for _, ext := range []string{".yaml", ".json", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "messages"+ext)

			if err := original.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if len(loaded.Messages) != len(original.Messages) {
				t.Fatalf("loaded %d messages, want %d", len(loaded.Messages), len(original.Messages))
			}
			for i, r := range loaded.Messages {
				if r != original.Messages[i] {
					t.Errorf("record %d = %+v, want %+v", i, r, original.Messages[i])
				}
			}
		})
	}
}

func TestLoad_HandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	data := `messages:
  - id: 1
    content: hello
    timestamp: 100
  - id: 1
    content: replaced
    timestamp: 150
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st := store.New(model.Local)
	snap.Put(st)

	if st.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", st.Size())
	}
	if msg, _ := st.Get(1); msg.Content() != "replaced" {
		t.Errorf("content = %q, want last record to win", msg.Content())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	if _, err := Load(filepath.Join(dir, "file.txt")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestFromStore(t *testing.T) {
	st := store.New(model.Remote)
	st.Put(3, "c", 3)
	st.Put(1, "a", 1)

	snap := FromStore(st)
	if len(snap.Messages) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Messages))
	}
	if snap.Messages[0].ID != 1 || snap.Messages[1].ID != 3 {
		t.Errorf("records not ordered by id: %+v", snap.Messages)
	}
}
