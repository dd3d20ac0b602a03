package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, Options{Format: FormatJSON})
	log.Info("evaluated", "points", 128)

	out := buf.String()
	if !strings.Contains(out, `"msg":"evaluated"`) || !strings.Contains(out, `"points":128`) {
		t.Fatalf("unexpected JSON record: %s", out)
	}
}

func TestAutoFormatOnBufferIsJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(&buf, Options{}).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("non-terminal writer should get JSON, got: %s", buf.String())
	}
}

func TestSharedLevelVar(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	log := New(&buf, Options{Format: FormatJSON, Level: level})

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn: %s", buf.String())
	}
	level.Set(slog.LevelDebug)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("level change not applied: %s", buf.String())
	}
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, Options{Format: FormatJSON}).With("component", "engine")
	log.WithGroup("req").Info("done", "id", "abc")

	out := buf.String()
	if !strings.Contains(out, `"component":"engine"`) || !strings.Contains(out, `"req":{"id":"abc"}`) {
		t.Fatalf("unexpected record: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, Options{Format: FormatJSON})
	FromContext(WithContext(context.Background(), log)).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("context logger not used: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without a logger returned nil")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	Discard().With("k", "v").Error("dropped")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"JSON", FormatJSON, false},
		{"console", FormatConsole, false},
		{"xml", "", true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func newConsole(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewConsoleHandler(buf, &slog.HandlerOptions{Level: level}, false))
}

func TestConsoleLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	newConsole(&buf, slog.LevelInfo).Warn("omega ignored", "functional", "lda_x", "omega", 0.25, "note", "not range separated")

	out := buf.String()
	for _, want := range []string{" WRN omega ignored", "functional=lda_x", "omega=0.25", `note="not range separated"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("uncolored handler wrote escape codes: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("record not newline terminated: %q", out)
	}
}

func TestConsoleEnabled(t *testing.T) {
	t.Parallel()
	h := NewConsoleHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) || !h.Enabled(ctx, slog.LevelError) {
		t.Fatal("level threshold not honoured")
	}
	if !NewConsoleHandler(&bytes.Buffer{}, nil, false).Enabled(ctx, slog.LevelInfo) {
		t.Fatal("nil options should enable info")
	}
}

func TestConsoleGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newConsole(&buf, slog.LevelInfo).WithGroup("a").With("x", 1).WithGroup("b")
	log.Info("nested", "k", "v", slog.Group("g", "y", true))

	out := buf.String()
	for _, want := range []string{"a.x=1", "a.b.k=v", "a.b.g.y=true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	h := NewConsoleHandler(&buf, nil, false)
	if h.WithGroup("") != h {
		t.Fatal("empty group should return the same handler")
	}
}

func TestConsoleColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewConsoleHandler(&buf, nil, true)).Error("boom")
	if !strings.Contains(buf.String(), ansiRed+"ERR"+ansiReset) {
		t.Fatalf("expected colored level tag, got %q", buf.String())
	}
}
