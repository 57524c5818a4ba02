package pg

import "context"

// logger captures the structured-logging calls this package emits.
// *slog.Logger satisfies it; declaring the subset here keeps the
// dependency direction pointing at the caller.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
