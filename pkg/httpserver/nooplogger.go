package httpserver

import (
	"context"
	"log/slog"
)

// discardHandler drops every record. Used when no logger option is
// supplied so the server never has to nil-check its logger.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func newNoopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}
