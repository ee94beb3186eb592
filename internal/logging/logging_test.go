package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// capture swaps the default logger for a JSON logger writing to a buffer
// and returns the decoded records.
func capture(t *testing.T, f func()) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	old := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { defaultLogger = old }()

	f()

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

// captureStderr runs f with a logger built by InitLogger and returns what
// it wrote to stderr.
func captureStderr(t *testing.T, level Level, format Format, f func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	InitLogger(level, format)
	f()

	w.Close()
	os.Stderr = old
	out := <-done
	InitLogger(LevelInfo, FormatJSON)
	return out
}

func TestInitLoggerLevels(t *testing.T) {
	out := captureStderr(t, LevelWarn, FormatJSON, func() {
		Debug("hidden_debug")
		InfoContext(context.Background(), "hidden_info")
		ReaderWarning("ldp", 3, "unknown element")
	})
	if strings.Contains(out, "hidden_") {
		t.Errorf("records below warn were written:\n%s", out)
	}
	if !strings.Contains(out, `"msg":"reader_warning"`) {
		t.Errorf("warning missing:\n%s", out)
	}
}

func TestInitLoggerFormats(t *testing.T) {
	text := captureStderr(t, LevelDebug, FormatText, func() {
		Debug("linker_check", "kind", "clef")
	})
	if !strings.Contains(text, "msg=linker_check") || !strings.Contains(text, "kind=clef") {
		t.Errorf("text output = %q", text)
	}

	js := captureStderr(t, LevelDebug, FormatJSON, func() {
		Debug("linker_check")
	})
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(js)), &rec); err != nil {
		t.Fatalf("json output %q: %v", js, err)
	}
	ts, _ := rec["time"].(string)
	// RFC3339 without fractional seconds
	if len(ts) < len("2006-01-02T15:04:05Z") || strings.Contains(ts, ".") {
		t.Errorf("time = %q, want RFC3339", ts)
	}
}

func TestScoreIDContext(t *testing.T) {
	ctx := context.Background()
	if GetScoreID(ctx) != "" {
		t.Error("empty context should have no score id")
	}
	ctx = WithScoreID(ctx, "8d2e")
	if GetScoreID(ctx) != "8d2e" {
		t.Errorf("GetScoreID() = %q", GetScoreID(ctx))
	}

	recs := capture(t, func() {
		InfoContext(ctx, "score_stored", "format", "ldp")
		DebugContext(context.Background(), "score_cache_miss")
	})
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0]["score_id"] != "8d2e" || recs[0]["format"] != "ldp" {
		t.Errorf("first record = %v", recs[0])
	}
	if _, ok := recs[1]["score_id"]; ok {
		t.Errorf("record without score id = %v", recs[1])
	}
}

func TestEventHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func()
		msg   string
		level string
		attrs map[string]any
	}{
		{
			name:  "linker",
			log:   func() { LinkerUnplaced("Score", "Clef", "role", "none") },
			msg:   "linker_unplaced",
			level: "DEBUG",
			attrs: map[string]any{"parent_kind": "Score", "child_kind": "Clef", "role": "none"},
		},
		{
			name:  "loaded",
			log:   func() { ScoreLoaded("minuet.lms", "ldp", 2) },
			msg:   "score_loaded",
			level: "INFO",
			attrs: map[string]any{"path": "minuet.lms", "format": "ldp", "instruments": float64(2)},
		},
		{
			name:  "store",
			log:   func() { StoreEvent("blob_stored", "ab12", "size", 10) },
			msg:   "store_event",
			level: "INFO",
			attrs: map[string]any{"event": "blob_stored", "hash": "ab12", "size": float64(10)},
		},
		{
			name:  "reader",
			log:   func() { ReaderWarning("musicxml", 14, "grace note skipped") },
			msg:   "reader_warning",
			level: "WARN",
			attrs: map[string]any{"format": "musicxml", "line": float64(14), "message": "grace note skipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := capture(t, tt.log)
			if len(recs) != 1 {
				t.Fatalf("records = %d, want 1", len(recs))
			}
			rec := recs[0]
			if rec["msg"] != tt.msg || rec["level"] != tt.level {
				t.Errorf("msg/level = %v/%v, want %s/%s", rec["msg"], rec["level"], tt.msg, tt.level)
			}
			for k, want := range tt.attrs {
				if rec[k] != want {
					t.Errorf("%s = %v, want %v", k, rec[k], want)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"", FormatJSON, true},
		{"Text", FormatText, true},
		{"yaml", FormatJSON, false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
