package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "run.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("init: %v", err)
	}
	LogEvent("[TEST] hello %d", 42)
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[TEST] hello 42") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestLogQueryFormat(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	LogQuery("evaluate", "q7", "mrr=0.5")

	line := buf.String()
	if !strings.Contains(line, "[EVALUATE]") || !strings.Contains(line, "query=q7") || !strings.Contains(line, "mrr=0.5") {
		t.Fatalf("unexpected log line: %q", line)
	}
}

func TestLogQueryOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	LogQuery("skip", "", "")

	line := buf.String()
	if strings.Contains(line, "query=") {
		t.Fatalf("expected query field to be omitted: %q", line)
	}
}
