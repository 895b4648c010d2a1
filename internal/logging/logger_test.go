package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutroom/internal/logging"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("export queued", logging.String(logging.FieldJobID, "j1"), logging.Int("pending", 3))
	logger.Debug("should be filtered")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "export queued") {
		t.Fatalf("expected message in output, got %q", text)
	}
	if !strings.Contains(text, "job_id=j1") {
		t.Fatalf("expected attribute in output, got %q", text)
	}
	if strings.Contains(text, "should be filtered") {
		t.Fatalf("debug line should have been filtered, got %q", text)
	}
}

func TestNewJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("compiled", logging.String(logging.FieldPreset, "youtube"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", string(data), err)
	}
	if record["msg"] != "compiled" {
		t.Fatalf("unexpected record %v", record)
	}
	if record["preset"] != "youtube" {
		t.Fatalf("missing preset attribute in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestComponentLoggerTagsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	base, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logging.NewComponentLogger(base, "batch").Info("drained")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[batch]") {
		t.Fatalf("expected component tag, got %q", string(data))
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored", logging.Error(nil))
}
