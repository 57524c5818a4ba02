package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor stamps the request id onto every log line emitted
// within the request scope.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}
