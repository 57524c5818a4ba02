// Package httpserver wraps net/http with graceful shutdown, functional
// options, lifecycle hooks, and a health-check handler.
//
// Run blocks until the context is canceled or an interrupt/SIGTERM
// arrives, then drains in-flight requests within the configured
// shutdown timeout. Construction goes through New with options, or
// NewFromConfig when the settings come from the environment. Failures
// wrap the ErrStart and ErrShutdown sentinels so callers can inspect
// them with errors.Is.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStartHook(func(l *slog.Logger) {
//			l.Info("listening", slog.String("addr", cfg.Addr))
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// HealthCheckHandler doubles as liveness and readiness probe; see its
// documentation for the contract.
package httpserver
