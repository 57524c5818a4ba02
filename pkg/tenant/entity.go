package tenant

import "context"

// Entity is the contract every persisted business object must satisfy to
// pass through the scoped data-access adapters. The tenant key field is
// set exactly once at creation and never reassigned afterwards.
type Entity interface {
	// TenantKey returns the entity's embedded tenant key, or "" if the
	// entity has not been stamped yet (new, unsaved entity).
	TenantKey() string

	// StampTenant sets the tenant key if and only if it is still unset.
	// Implementations must ignore the call on an already-stamped entity.
	StampTenant(key string)
}

// Scoped is an embeddable Entity implementation carrying the mandatory
// tenant key field under the canonical storage name.
//
//	type Product struct {
//		tenant.Scoped `bson:",inline"`
//		ID   string `bson:"_id"`
//		Name string `bson:"name"`
//	}
type Scoped struct {
	Tenant string `json:"tenant_key" bson:"tenant_key" db:"tenant_key"`
}

// TenantKey returns the embedded tenant key.
func (s *Scoped) TenantKey() string { return s.Tenant }

// StampTenant sets the tenant key once; later calls are no-ops.
func (s *Scoped) StampTenant(key string) {
	if s.Tenant == "" {
		s.Tenant = key
	}
}

// Stamp assigns the ambient tenant key to a new entity. It fails closed
// with ErrNoTenantInContext when no tenant is attached, and with
// ErrTenantMismatch when the entity was already stamped for a different
// tenant. Stamping is idempotent under the same tenant.
func Stamp(ctx context.Context, e Entity) error {
	key, ok := KeyFromContext(ctx)
	if !ok {
		return ErrNoTenantInContext
	}
	if existing := e.TenantKey(); existing != "" && existing != key {
		return ErrTenantMismatch
	}
	e.StampTenant(key)
	return nil
}

// VerifyIntegrity is the cross-tenant guard: the last-line check adapters
// run immediately before a write commits, independent of whatever query
// filtering was already applied. A mismatch between the entity's embedded
// tenant key and the ambient context indicates a bug upstream, so callers
// must abort the write and log the violation at high severity.
func VerifyIntegrity(ctx context.Context, e Entity) error {
	key, ok := KeyFromContext(ctx)
	if !ok {
		return ErrNoTenantInContext
	}
	if embedded := e.TenantKey(); embedded != "" && embedded != key {
		return ErrTenantMismatch
	}
	return nil
}
