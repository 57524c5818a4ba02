// Package catalog is the product catalog module. It composes the
// tenant-scoped store adapters (document repository, cache, search
// index) into a single service and exposes it as a chi router.
//
// The module never touches tenant keys itself: scoping is inherited
// from the adapters, which read the ambient tenant from the request
// context and fail closed when it is absent. The router must therefore
// be mounted behind the tenant resolver middleware.
package catalog
