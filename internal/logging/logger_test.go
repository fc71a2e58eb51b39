package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauern/msgsync/internal/logging"
)

func TestNew_Formats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})
		logger.Info("diff computed", "added", 2)

		if !strings.Contains(buf.String(), "added=2") {
			t.Errorf("expected text output to contain added=2, got: %s", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf, JSON: true})
		logger.Info("diff computed", logging.MessageID(9))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if entry["msg"] != "diff computed" {
			t.Errorf("msg = %v, want %q", entry["msg"], "diff computed")
		}
		if entry["message_id"] != float64(9) {
			t.Errorf("message_id = %v, want 9", entry["message_id"])
		}
	})
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should appear at warn level")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := logging.DefaultOptions()

	if opts.Level != logging.LevelInfo {
		t.Errorf("expected default level to be Info, got: %v", opts.Level)
	}
	if opts.JSON || opts.AddSource {
		t.Error("expected text output without source by default")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Output: &buf})

	ctx := logging.NewContext(context.Background(), logger)
	logging.WithContext(ctx).Info("context message")

	if !strings.Contains(buf.String(), "context message") {
		t.Error("expected WithContext to use the logger from context")
	}
	if logging.FromContext(context.Background()) != nil {
		t.Error("expected nil logger from empty context")
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := map[string]struct {
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		"Side":      {attr: logging.Side("remote"), wantKey: "side", wantVal: "remote"},
		"MessageID": {attr: logging.MessageID(42), wantKey: "message_id", wantVal: "42"},
		"Path":      {attr: logging.Path("/tmp/local.yaml"), wantKey: "path", wantVal: "/tmp/local.yaml"},
		"Operation": {attr: logging.Operation("diff"), wantKey: "operation", wantVal: "diff"},
		"Count":     {attr: logging.Count(3), wantKey: "count", wantVal: "3"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("got key %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("got value %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	if attr := logging.Err(nil); attr.Key != "" {
		t.Errorf("expected empty key for nil error, got: %q", attr.Key)
	}

	attr := logging.Err(context.Canceled)
	if attr.Key != "error" {
		t.Errorf("expected key 'error', got %q", attr.Key)
	}
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))

	done := logging.Timer("apply")
	done()

	output := buf.String()
	if !strings.Contains(output, "operation=apply") {
		t.Errorf("expected operation attribute, got: %s", output)
	}
	if !strings.Contains(output, "duration=") {
		t.Errorf("expected duration attribute, got: %s", output)
	}
}

func TestPackageLevelLogging(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefault(logging.New(logging.Options{Level: logging.LevelDebug, Output: &buf}))

	logging.Debug("debug message")
	logging.Info("info message")
	logging.Warn("warn message")
	logging.Error("error message")

	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}
