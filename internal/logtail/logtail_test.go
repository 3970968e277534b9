package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/stockpile/internal/logging"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","timestamp":"2026-01-05T18:00:01.250+0100","logger":"stockpile.sync","msg":"refresh failed","error":"list items: boom","consecutive_failures":2}`
	e := Parse(line)
	if e.Level != "WARN" || e.Logger != "stockpile.sync" || e.Message != "refresh failed" {
		t.Fatalf("Parse = %#v", e)
	}
	if e.Time.IsZero() || e.Time.Second() != 1 {
		t.Fatalf("Time = %v, want parsed ISO8601 timestamp", e.Time)
	}
	if got := e.FieldList(); got != "consecutive_failures=2 error=list items: boom" {
		t.Fatalf("FieldList = %q", got)
	}
	if !e.Matches("BOOM") || !e.Matches("sync") || e.Matches("dispatch") {
		t.Fatalf("Matches gave unexpected results for %#v", e)
	}
}

func TestParse_PlainText(t *testing.T) {
	e := Parse("  panic: something odd ")
	if e.Message != "panic: something odd" || e.Level != "" || e.Fields != nil {
		t.Fatalf("Parse(plain) = %#v", e)
	}
}

func TestReadEntries_FromLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stockpile.log")
	logger, err := logging.New(logging.Options{Path: path})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	for i := 0; i < 3; i++ {
		logging.Named(logger, "dispatch").Info("mutation committed")
	}
	logger.Warn("refresh failed")
	_ = logger.Sync()

	entries, err := ReadEntries(path, 2)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "mutation committed" || entries[1].Level != "WARN" {
		t.Fatalf("entries = %#v", entries)
	}
	if entries[0].Time.IsZero() {
		t.Fatalf("entry time not parsed from %q", entries[0].Raw)
	}
}

func TestRead_TailSpansChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.log")
	long := strings.Repeat("x", tailChunk/3)

	var b strings.Builder
	var all []string
	for i := 0; i < 12; i++ {
		line := fmt.Sprintf("%02d %s", i, long)
		all = append(all, line)
		b.WriteString(line)
		if i < 11 {
			b.WriteString("\n") // no trailing newline on the last line
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := Read(path, 7)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, all[5:]) {
		t.Fatalf("Read returned %d lines, want the last 7 of 12", len(got))
	}
}
