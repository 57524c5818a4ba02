package tenant

import "errors"

var (
	// ErrIdentifierMissing is returned when a request carries no tenant
	// identifier at all (bare domain, reserved subdomain, empty path).
	ErrIdentifierMissing = errors.New("tenant identifier missing")

	// ErrTenantNotFound is returned when an identifier resolves to no
	// directory entry. A lookup miss is an expected outcome and must stay
	// distinguishable from a directory infrastructure failure.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier is returned when the identifier format is invalid.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned when a scoped operation is attempted
	// without a resolved tenant in the context. Scoped data access fails
	// closed on this error before any store interaction.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrInactiveTenant is returned when trying to use a soft-disabled tenant.
	ErrInactiveTenant = errors.New("tenant is inactive")

	// ErrTenantMismatch indicates an entity whose embedded tenant key differs
	// from the ambient context. This is a programming error, never routine
	// user input; callers must abort the write and log it at error level.
	ErrTenantMismatch = errors.New("tenant integrity violation")

	// ErrAliasTaken is returned when provisioning or updating a tenant with a
	// subdomain, custom domain, or path segment already claimed by another tenant.
	ErrAliasTaken = errors.New("tenant alias already taken")
)
