package pgdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/shopkit/pkg/pg"
	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// Store is the PostgreSQL system-of-record for the tenant directory.
// Alias uniqueness is enforced by unique indexes on the lower-cased alias
// columns, so concurrent provisioning races are settled by the database
// rather than by application-level checks.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a directory store; assumes migrations already created the
// tenants table.
func New(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, errors.New("pgdir: pool is required")
	}
	return &Store{pool: pool}, nil
}

const tenantColumns = `key, subdomain, custom_domain, path_segment, name, contact_email,
	branding, settings, active, created_at, updated_at`

// Lookup matches the identifier case-insensitively against all alias columns.
func (s *Store) Lookup(ctx context.Context, identifier string) (*tenant.Tenant, error) {
	id := tenant.NormalizeAlias(identifier)

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM tenants
		WHERE lower(subdomain) = $1
		   OR lower(custom_domain) = $1
		   OR lower(path_segment) = $1
	`, tenantColumns), id)

	return scanTenant(row)
}

// ExistsByAlias reports whether any tenant claims the alias.
func (s *Store) ExistsByAlias(ctx context.Context, alias string) (bool, error) {
	id := tenant.NormalizeAlias(alias)

	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tenants
			WHERE lower(subdomain) = $1
			   OR lower(custom_domain) = $1
			   OR lower(path_segment) = $1
		)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgdir exists: %w", err)
	}
	return exists, nil
}

// GetByKey fetches a tenant by its canonical key.
func (s *Store) GetByKey(ctx context.Context, key string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM tenants WHERE key = $1
	`, tenantColumns), key)

	return scanTenant(row)
}

// Insert stores a newly provisioned tenant. Unique index violations on
// the alias columns are reported as ErrAliasTaken.
func (s *Store) Insert(ctx context.Context, t *tenant.Tenant) error {
	branding, settings, err := marshalProfile(t)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO tenants (key, subdomain, custom_domain, path_segment, name, contact_email,
			branding, settings, active, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
	`, t.Key, t.Subdomain, t.CustomDomain, t.PathSegment, t.Name, t.ContactEmail,
		branding, settings, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return tenant.ErrAliasTaken
		}
		return fmt.Errorf("pgdir insert: %w", err)
	}
	return nil
}

// Update mutates everything except the immutable key.
func (s *Store) Update(ctx context.Context, t *tenant.Tenant) error {
	branding, settings, err := marshalProfile(t)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE tenants
		SET subdomain = $2, custom_domain = NULLIF($3, ''), path_segment = NULLIF($4, ''),
			name = $5, contact_email = $6, branding = $7, settings = $8,
			active = $9, updated_at = $10
		WHERE key = $1
	`, t.Key, t.Subdomain, t.CustomDomain, t.PathSegment, t.Name, t.ContactEmail,
		branding, settings, t.Active, t.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return tenant.ErrAliasTaken
		}
		return fmt.Errorf("pgdir update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

func marshalProfile(t *tenant.Tenant) (branding, settings []byte, err error) {
	branding, err = json.Marshal(t.Branding)
	if err != nil {
		return nil, nil, fmt.Errorf("pgdir marshal branding: %w", err)
	}
	settings, err = json.Marshal(t.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("pgdir marshal settings: %w", err)
	}
	return branding, settings, nil
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var (
		t                        tenant.Tenant
		customDomain, pathSeg    *string
		brandingRaw, settingsRaw []byte
	)

	err := row.Scan(&t.Key, &t.Subdomain, &customDomain, &pathSeg, &t.Name, &t.ContactEmail,
		&brandingRaw, &settingsRaw, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("pgdir scan: %w", err)
	}

	if customDomain != nil {
		t.CustomDomain = *customDomain
	}
	if pathSeg != nil {
		t.PathSegment = *pathSeg
	}
	if len(brandingRaw) > 0 {
		if err := json.Unmarshal(brandingRaw, &t.Branding); err != nil {
			return nil, fmt.Errorf("pgdir unmarshal branding: %w", err)
		}
	}
	if len(settingsRaw) > 0 {
		if err := json.Unmarshal(settingsRaw, &t.Settings); err != nil {
			return nil, fmt.Errorf("pgdir unmarshal settings: %w", err)
		}
	}
	return &t, nil
}
