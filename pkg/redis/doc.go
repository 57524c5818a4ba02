// Package redis provides Redis connection management and the
// tenant-namespaced cache adapter.
//
// Connect handles retry logic for slow-starting stores; Healthcheck
// plugs into readiness probes. ScopedCache is the only cache surface
// business code sees: every key it produces is prefixed with the feature
// name and the ambient tenant key, so cache entries of different tenants
// live in disjoint namespaces and a request without a resolved tenant
// cannot touch the cache at all.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	products := redis.NewScopedCache(client, "products")
//
//	// Keys materialize as "products:{tenantKey}:sku-123".
//	err = products.Set(ctx, "sku-123", payload, 10*time.Minute)
package redis
