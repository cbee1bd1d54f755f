// Package logging provides the JSON slog handler used by every component.
//
// Debug records are written only in debug mode. Error records are always
// written, but outside debug mode they carry just the message.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type Handler struct {
	full  slog.Handler
	bare  slog.Handler
	debug bool
}

func New(w io.Writer, debug bool) *slog.Logger {
	return slog.New(NewHandler(w, debug))
}

func NewHandler(w io.Writer, debug bool) *Handler {
	inner := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})

	return &Handler{full: inner, bare: inner, debug: debug}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < slog.LevelInfo && !h.debug {
		return false
	}

	return h.full.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelInfo && !h.debug {
		return nil
	}

	if r.Level >= slog.LevelError && !h.debug {
		return h.bare.Handle(ctx, slog.NewRecord(r.Time, r.Level, r.Message, r.PC))
	}

	return h.full.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{full: h.full.WithAttrs(attrs), bare: h.bare, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{full: h.full.WithGroup(name), bare: h.bare, debug: h.debug}
}

var _ slog.Handler = (*Handler)(nil)
