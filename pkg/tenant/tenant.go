package tenant

import (
	"context"
	"strings"
	"time"
)

// Tenant is the canonical directory record for a single store.
// Key is the opaque internal identifier every scoped entity references;
// it is assigned once at provisioning time and never changes. The alias
// fields (Subdomain, CustomDomain, PathSegment) are the human-facing
// identifiers resolvers extract from requests.
type Tenant struct {
	Key          string    `json:"key" bson:"key" db:"key"`
	Subdomain    string    `json:"subdomain" bson:"subdomain" db:"subdomain"`
	CustomDomain string    `json:"custom_domain,omitempty" bson:"custom_domain,omitempty" db:"custom_domain"`
	PathSegment  string    `json:"path_segment,omitempty" bson:"path_segment,omitempty" db:"path_segment"`
	Name         string    `json:"name" bson:"name" db:"name"`
	ContactEmail string    `json:"contact_email,omitempty" bson:"contact_email,omitempty" db:"contact_email"`
	Branding     Branding  `json:"branding" bson:"branding"`
	Settings     Settings  `json:"settings" bson:"settings"`
	Active       bool      `json:"active" bson:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// Branding holds per-tenant storefront appearance tokens.
type Branding struct {
	LogoURL    string            `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	Colors     map[string]string `json:"colors,omitempty" bson:"colors,omitempty"`
	FontFamily string            `json:"font_family,omitempty" bson:"font_family,omitempty"`
}

// Settings holds per-tenant operational settings consumed by storefront
// business logic (pricing, shipping, inventory alerts).
type Settings struct {
	Currency              string  `json:"currency" bson:"currency"`
	TaxRate               float64 `json:"tax_rate" bson:"tax_rate"`
	FreeShippingThreshold int64   `json:"free_shipping_threshold" bson:"free_shipping_threshold"`
	LowStockThreshold     int     `json:"low_stock_threshold" bson:"low_stock_threshold"`
}

// Aliases returns all non-empty resolvable aliases of the tenant in
// normalized (case-folded) form.
func (t *Tenant) Aliases() []string {
	aliases := make([]string, 0, 3)
	for _, a := range []string{t.Subdomain, t.CustomDomain, t.PathSegment} {
		if a != "" {
			aliases = append(aliases, NormalizeAlias(a))
		}
	}
	return aliases
}

// NormalizeAlias folds an alias to its canonical lookup form.
// Alias matching is case-insensitive everywhere: resolvers, directory
// lookups, and uniqueness checks all operate on the normalized form.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// Directory maps candidate identifiers extracted by resolvers to tenant
// records. Lookup returns ErrTenantNotFound on a miss; any other error
// means the directory store itself failed and must be surfaced as a
// server-side condition, not as an unknown tenant.
type Directory interface {
	// Lookup matches the identifier case-insensitively against the
	// subdomain, custom domain, and path segment aliases.
	Lookup(ctx context.Context, identifier string) (*Tenant, error)

	// ExistsByAlias reports whether any tenant already claims the alias.
	// Provisioning flows use it to reject collisions before insert.
	ExistsByAlias(ctx context.Context, alias string) (bool, error)
}
