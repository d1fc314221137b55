package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every member is nil")
	}

	var buf bytes.Buffer
	only := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, only); h != only {
		t.Fatalf("expected the single member unwrapped, got %T", h)
	}

	a := slog.NewJSONHandler(&buf, nil)
	b := slog.NewJSONHandler(&buf, nil)
	c := slog.NewJSONHandler(&buf, nil)
	nested := newFanoutHandler(newFanoutHandler(a, b), c)
	f, ok := nested.(*fanoutHandler)
	if !ok || len(f.members) != 3 {
		t.Fatalf("expected flattened fanout of 3, got %#v", nested)
	}
}

func TestFanoutRoutesByMemberLevel(t *testing.T) {
	var console, runLog bytes.Buffer
	consoleHandler := slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo})
	runLogHandler := newJSONHandler(&runLog, slog.LevelDebug, false)

	logger := slog.New(newFanoutHandler(consoleHandler, runLogHandler))
	logger.Debug("page plan", Page(3))
	logger.Info("run complete")

	if strings.Contains(console.String(), "page plan") {
		t.Fatalf("debug record reached info console: %s", console.String())
	}
	if !strings.Contains(console.String(), "run complete") {
		t.Fatalf("console missing info record: %s", console.String())
	}
	for _, want := range []string{`"msg":"page plan"`, `"page":3`, `"msg":"run complete"`} {
		if !strings.Contains(runLog.String(), want) {
			t.Fatalf("run log missing %s: %s", want, runLog.String())
		}
	}

	if logger.Handler().Enabled(context.Background(), slog.LevelDebug-4) {
		t.Fatal("expected fanout disabled below every member level")
	}
}

func TestFanoutKeepsWritingAfterMemberError(t *testing.T) {
	var buf bytes.Buffer
	broken := failingHandler{slog.NewJSONHandler(&bytes.Buffer{}, nil)}
	h := newFanoutHandler(broken, slog.NewJSONHandler(&buf, nil))

	err := slog.New(h).Handler().Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "loaded pages", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected joined member error, got %v", err)
	}
	if !strings.Contains(buf.String(), "loaded pages") {
		t.Fatal("healthy member should still receive the record")
	}
}

func TestFanoutWithAttrsAndGroupReachEveryMember(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(newFanoutHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With(String(FieldComponent, "cleaner")).WithGroup("plan")
	logger.Info("page plan", Int("strip_start", 1))

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		out := buf.String()
		if !strings.Contains(out, `"component":"cleaner"`) || !strings.Contains(out, `"plan":{"strip_start":1}`) {
			t.Fatalf("member %s output = %s", name, out)
		}
	}
}

func TestTeeLoggerKeepsBaseAttrs(t *testing.T) {
	var console, extra bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&console, nil)).With(String(FieldRunID, "run-1"))
	logger := TeeLogger(base, slog.NewJSONHandler(&extra, nil))
	logger.Info("patterns detected")

	if !strings.Contains(console.String(), `"run_id":"run-1"`) {
		t.Fatalf("console lost base attrs: %s", console.String())
	}
	if !strings.Contains(extra.String(), "patterns detected") {
		t.Fatalf("tee target missing record: %s", extra.String())
	}

	if TeeLogger(nil) == nil {
		t.Fatal("TeeLogger(nil) should return a usable logger")
	}
}
