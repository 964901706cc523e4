package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWriter_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.now = func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) }

	l.LogBooking("CONFIRM", "GIC0001", "booking confirmed")
	l.Warn("INPUT", "bad seat")

	scanner := bufio.NewScanner(&buf)
	var entries []LogEntry
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("expected json line, got %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "INFO" || entries[0].Category != "BOOKING" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[0].Message != "[CONFIRM] GIC0001 - booking confirmed" {
		t.Fatalf("unexpected message: %q", entries[0].Message)
	}
	if entries[0].Timestamp != "2025-03-01T10:30:00.000Z" {
		t.Fatalf("unexpected timestamp: %q", entries[0].Timestamp)
	}
	if entries[1].Level != "WARN" {
		t.Fatalf("expected WARN, got %q", entries[1].Level)
	}
	if entries[0].Session == "" || entries[0].Session != entries[1].Session {
		t.Fatalf("expected a shared session id, got %q and %q", entries[0].Session, entries[1].Session)
	}
}

func TestNew_CreatesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	l, err := New(Options{Dir: dir, Console: &console})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	l.Error("STORE", "disk full")
	if err := l.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	name := filepath.Join(dir, "gic-cbs-"+time.Now().Format(time.DateOnly)+".log")
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if !strings.Contains(string(data), "disk full") {
		t.Fatalf("expected log line in file, got %q", data)
	}
	if !strings.Contains(console.String(), "disk full") {
		t.Fatalf("expected console echo, got %q", console.String())
	}
}

func TestNew_RequiresDir(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestNilLogger_IsSafe(t *testing.T) {
	var l *Logger
	l.Info("X", "ignored")
	if err := l.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
