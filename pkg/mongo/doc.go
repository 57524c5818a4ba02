// Package mongo provides MongoDB connection management and the
// tenant-scoped document repository used for all catalog, order, and
// review persistence.
//
// Connection handling is environment-driven with retry logic for
// transient startup failures; see Config for the knobs. The interesting
// part is Repository: a generic repository whose every query conjoins
// the ambient tenant key from the request context and whose every write
// stamps and verifies that key, so business code holding a Repository
// cannot express a cross-tenant query.
//
// # Usage
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "shopkit")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	products := mongo.NewRepository[catalog.Product](db.Collection("products"))
//
//	// ctx must carry a resolved tenant; otherwise every call fails
//	// closed with tenant.ErrNoTenantInContext.
//	p, err := products.FindByID(ctx, "sku-123")
//
// Collections holding scoped entities should be initialized once with
// EnsureTenantIndexes so tenant-scoped queries stay index-covered.
package mongo
