package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant returns a context carrying the resolved tenant. The value is
// immutable for the lifetime of the request: downstream code reads it, it
// never replaces or mutates it. Because the carrier is a plain
// context.Context value, it survives goroutine fan-out and worker-pool
// hops where thread-local storage would not.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is attached.
func FromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(*Tenant)
	return t, ok
}

// KeyFromContext retrieves just the tenant key from the context.
// Scoped data-access adapters call this and fail closed on ok == false.
func KeyFromContext(ctx context.Context) (string, bool) {
	t, ok := FromContext(ctx)
	if !ok || t == nil || t.Key == "" {
		return "", false
	}
	return t.Key, true
}

// MustFromContext retrieves the tenant from the context.
// Panics if no tenant is attached. Use this only in handlers that are
// mounted strictly behind the resolver middleware.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok || t == nil {
		panic("tenant: no tenant in context")
	}
	return t
}

// LoggerExtractor returns a ContextExtractor for the logger that stamps
// every log record emitted inside a resolved request with the tenant key.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if key, ok := KeyFromContext(ctx); ok {
			return slog.String("tenant_key", key), true
		}
		return slog.Attr{}, false
	}
}
