package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewValidInputs(t *testing.T) {
	cases := []struct {
		level  string
		format string
	}{
		{"info", "json"},
		{"debug", "console"},
		{"WARN", "json"},
		{"error", "CONSOLE"},
	}
	for _, c := range cases {
		l, err := New(c.level, c.format)
		if err != nil {
			t.Fatalf("expected no error for level=%q format=%q, got %v", c.level, c.format, err)
		}
		if l == nil {
			t.Fatalf("expected logger for level=%q format=%q", c.level, c.format)
		}
	}
}

func TestNewInvalidInputs(t *testing.T) {
	cases := [][2]string{{"", "json"}, {"info", ""}, {"verbose", "json"}, {"info", "xml"}}
	for _, c := range cases {
		if _, err := New(c[0], c[1]); err == nil {
			t.Fatalf("expected error for level=%q format=%q", c[0], c[1])
		}
	}
}

func TestNewWithWriterJSONFiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := NewWithWriter("warn", "json", buf)
	if err != nil {
		t.Fatalf("NewWithWriter returned error: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "shown" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
