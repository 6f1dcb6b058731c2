package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return l, buf
}

func TestLoggerTagsComponent(t *testing.T) {
	l, buf := newBufferLogger(ComponentStore)
	l.Info("Expense added", "id", "e1")

	out := buf.String()
	if !strings.Contains(out, "component="+ComponentStore) {
		t.Fatalf("record missing component tag: %s", out)
	}
	if !strings.Contains(out, "id=e1") {
		t.Fatalf("record missing caller attributes: %s", out)
	}
}

func TestNewDefaultsComponent(t *testing.T) {
	l, buf := newBufferLogger("")
	l.Warn("no component configured")

	if out := buf.String(); !strings.Contains(out, "component="+ComponentApp) {
		t.Fatalf("expected default component tag, got: %s", out)
	}
}

func TestWithComponentRebindsWithoutDuplicating(t *testing.T) {
	l, buf := newBufferLogger(ComponentApp)
	l.WithComponent(ComponentWorker).Info("Backup complete")

	out := buf.String()
	if !strings.Contains(out, "component="+ComponentWorker) {
		t.Fatalf("expected rebound component tag, got: %s", out)
	}
	if got := strings.Count(out, "component="); got != 1 {
		t.Fatalf("component attribute appears %d times, want 1: %s", got, out)
	}
}
