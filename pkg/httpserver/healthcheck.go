package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/shopkit/pkg/logger"
)

// HealthCheckHandler reports the health of the storefront process.
// With no probes it is a liveness endpoint and always answers 200
// "ALIVE". With probes it is a readiness endpoint: every probe must
// pass for 200 "READY", and the first failure yields 500 "NOT_READY".
func HealthCheckHandler(ctx context.Context, log *slog.Logger, probes ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(probes) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, probe := range probes {
			if err := probe(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
