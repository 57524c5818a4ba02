// Package pgdir provides the PostgreSQL-backed tenant directory store.
//
// The tenants table is the single source of truth for alias-to-key
// resolution. Case-insensitive uniqueness of subdomains, custom domains,
// and path segments is enforced by unique indexes over the lower-cased
// columns (see the migrations directory), so a conflicting provision
// fails at write time regardless of how many application instances race.
//
// The store implements both tenant.Directory (hot-path lookups) and
// tenant.Store (administrative provisioning).
package pgdir
