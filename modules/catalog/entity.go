package catalog

import (
	"time"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// Product is a catalog entry owned by exactly one tenant. The embedded
// tenant scope is stamped by the repository on first save and immutable
// afterwards.
type Product struct {
	tenant.Scoped `bson:",inline"`

	ID          string    `json:"id" bson:"_id"`
	SKU         string    `json:"sku" bson:"sku"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	PriceCents  int64     `json:"price_cents" bson:"price_cents"`
	Stock       int       `json:"stock" bson:"stock"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// LowStock reports whether the product's stock is at or below the
// tenant's configured threshold.
func (p *Product) LowStock(threshold int) bool {
	return p.Stock <= threshold
}

// searchDocument flattens a product into the shape indexed for search.
// The tenant key is stamped by the index adapter, not here.
func (p *Product) searchDocument() map[string]any {
	return map[string]any{
		"sku":         p.SKU,
		"name":        p.Name,
		"description": p.Description,
		"price_cents": p.PriceCents,
		"active":      p.Active,
	}
}
