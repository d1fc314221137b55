package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler sends each record to every member that accepts its level.
// A clean run uses it to feed the console handler and the run log at once.
type fanoutHandler struct {
	members []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	members := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h == nil {
			continue
		}
		// Flatten nested fanouts so repeated tees stay one level deep.
		if f, ok := h.(*fanoutHandler); ok {
			members = append(members, f.members...)
			continue
		}
		members = append(members, h)
	}
	switch len(members) {
	case 0:
		return NoopHandler{}
	case 1:
		return members[0]
	default:
		return &fanoutHandler{members: members}
	}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, m := range h.members {
		if m.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives every accepting member its own copy of the record and joins
// their errors; a failing run log never suppresses console output.
func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, m := range h.members {
		if !m.Enabled(ctx, record.Level) {
			continue
		}
		if err := m.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(m slog.Handler) slog.Handler { return m.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.each(func(m slog.Handler) slog.Handler { return m.WithGroup(name) })
}

func (h *fanoutHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(h.members))
	for i, m := range h.members {
		next[i] = fn(m)
	}
	return &fanoutHandler{members: next}
}

// TeeLogger returns a logger writing to base's handler and every extra
// handler. Attributes bound to base before the tee stay on base's output
// only; bind run_id and component afterwards to reach every handler.
func TeeLogger(base *slog.Logger, handlers ...slog.Handler) *slog.Logger {
	if base == nil {
		return slog.New(newFanoutHandler(handlers...))
	}
	return slog.New(newFanoutHandler(append([]slog.Handler{base.Handler()}, handlers...)...))
}
