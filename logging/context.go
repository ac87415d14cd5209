package logging

import (
	"context"
	"log/slog"
)

// WithComponent creates a logger tagged with a subsystem name.
//
//	log := logging.WithComponent("batch")
//	log.Info("run started", "workers", 4)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// Discard returns a logger that drops every record. Useful as a default for
// optional logger fields.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
