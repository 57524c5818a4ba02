// Package tenant implements multi-tenant request resolution and the
// isolation primitives the rest of the platform builds on.
//
// Every inbound request passes through exactly one checkpoint: a resolver
// extracts a candidate identifier from the request (subdomain label, path
// segment, or an authorized override header), the directory maps it to a
// canonical tenant record, and the middleware attaches that record to the
// request context. Everything downstream — repositories, caches, search
// adapters — reads the tenant key from the context and refuses to run
// without it.
//
// # Usage
//
//	resolver := tenant.NewSubdomainResolver(".retail.example.com")
//
//	mw := tenant.Middleware(resolver, directory,
//		tenant.WithCacheTTL(10*time.Minute),
//		tenant.WithSkipPaths([]string{"/health", "/metrics"}),
//	)
//
//	r := chi.NewRouter()
//	r.Use(mw)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t := tenant.MustFromContext(r.Context())
//		_ = t.Key
//	}
//
// # Context propagation
//
// The resolved tenant rides on the stdlib context.Context, passed
// explicitly through every call. Nothing in this package stores tenant
// state in a goroutine-local or package-global slot, so concurrent
// requests for different tenants can never observe each other's context
// no matter how work is fanned out or which goroutine runs a
// continuation.
//
// # Fail-closed discipline
//
// Operations that need a tenant and find none return ErrNoTenantInContext
// instead of proceeding unscoped. The VerifyIntegrity guard additionally
// rejects any entity whose embedded tenant key disagrees with the ambient
// context before a write is allowed to commit.
//
// # Directory caching
//
// Directory lookups may be cached (in-memory LRU by default). The
// provisioning Service invalidates cache entries synchronously on every
// tenant write; TTL expiry alone is not trusted to retire alias mappings.
package tenant
