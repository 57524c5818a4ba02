package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Middleware is the single mandatory checkpoint in front of all
// tenant-scoped request handling. For every request it runs the
// configured resolution strategy, looks the candidate identifier up in
// the directory, and either rejects the request or attaches a resolved
// tenant to the context for everything downstream. Mount it first in the
// chain, before any handler that can touch persisted data.
//
// A request without a resolvable identifier is rejected with
// ErrIdentifierMissing rather than passed through unscoped; the only way
// past the checkpoint without a tenant is an explicitly configured skip
// path (health checks, metrics).
func Middleware(resolve Resolver, directory Directory, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:         NewInMemoryCache(),
		cacheTTL:      5 * time.Minute,
		errorHandler:  defaultErrorHandler,
		requireActive: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if identifier == "" {
				cfg.errorHandler(w, r, ErrIdentifierMissing)
				return
			}

			if cached, ok := cfg.cache.Get(r.Context(), identifier); ok {
				if cfg.requireActive && !cached.Active {
					cfg.errorHandler(w, r, ErrInactiveTenant)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), cached)))
				return
			}

			t, err := directory.Lookup(r.Context(), identifier)
			if err != nil {
				if !errors.Is(err, ErrTenantNotFound) && cfg.logger != nil {
					cfg.logger.ErrorContext(r.Context(), "tenant directory lookup failed",
						slog.String("identifier", identifier),
						slog.Any("error", err))
				}
				cfg.errorHandler(w, r, err)
				return
			}

			if cfg.requireActive && !t.Active {
				cfg.errorHandler(w, r, ErrInactiveTenant)
				return
			}

			cfg.cache.Set(r.Context(), identifier, t, cfg.cacheTTL)

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// RequireTenant ensures a tenant is present in the context. Use it as
// defense in depth on sub-routers that must never run unscoped even if
// the mounting order changes.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t, ok := FromContext(r.Context()); !ok || t == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
