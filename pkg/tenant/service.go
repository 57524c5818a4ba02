package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is the system-of-record behind the directory: the provisioning
// CRUD surface plus the read operations the middleware depends on.
// Insert and Update must enforce alias uniqueness at write time and
// return ErrAliasTaken on conflict; that constraint is the sole invariant
// protecting tenant resolution correctness.
type Store interface {
	Directory

	GetByKey(ctx context.Context, key string) (*Tenant, error)
	Insert(ctx context.Context, t *Tenant) error
	Update(ctx context.Context, t *Tenant) error
}

// Service implements the administrative provisioning operations. It sits
// off the hot request path: creates assign the immutable tenant key,
// updates mutate branding and settings, and soft-disable replaces hard
// deletion while referencing data exists. Every write synchronously
// invalidates the resolution cache for all aliases the tenant has ever
// answered to, so stale mappings never outlive the write.
type Service struct {
	store Store
	cache Cache
	log   *slog.Logger
}

// ServiceOption configures the provisioning service.
type ServiceOption func(*Service)

// WithServiceCache wires the same cache instance the middleware uses so
// provisioning writes can invalidate it.
func WithServiceCache(cache Cache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithServiceLogger sets the provisioning audit logger.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a provisioning service over the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		cache: NewNoOpCache(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams describes a new tenant to provision.
type CreateParams struct {
	Subdomain    string
	CustomDomain string
	PathSegment  string
	Name         string
	ContactEmail string
	Branding     Branding
	Settings     Settings
}

// Create provisions a new tenant. The tenant key is assigned here, once,
// and is immutable for the record's lifetime. Alias collisions are
// rejected before insert, and the store's unique constraints are the
// final authority for concurrent provisioning races.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Tenant, error) {
	subdomain := NormalizeAlias(params.Subdomain)
	if !isValidIdentifier(subdomain) {
		return nil, fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, params.Subdomain)
	}

	now := time.Now().UTC()
	t := &Tenant{
		Key:          uuid.NewString(),
		Subdomain:    subdomain,
		CustomDomain: NormalizeAlias(params.CustomDomain),
		PathSegment:  NormalizeAlias(params.PathSegment),
		Name:         params.Name,
		ContactEmail: params.ContactEmail,
		Branding:     params.Branding,
		Settings:     params.Settings,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, alias := range t.Aliases() {
		taken, err := s.store.ExistsByAlias(ctx, alias)
		if err != nil {
			return nil, fmt.Errorf("alias check: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", ErrAliasTaken, alias)
		}
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, t)
	s.log.InfoContext(ctx, "tenant provisioned",
		slog.String("tenant_key", t.Key),
		slog.String("subdomain", t.Subdomain))
	return t, nil
}

// UpdateBranding replaces the tenant's branding tokens.
func (s *Service) UpdateBranding(ctx context.Context, key string, branding Branding) (*Tenant, error) {
	return s.update(ctx, key, func(t *Tenant) error {
		t.Branding = branding
		return nil
	})
}

// UpdateSettings replaces the tenant's operational settings.
func (s *Service) UpdateSettings(ctx context.Context, key string, settings Settings) (*Tenant, error) {
	return s.update(ctx, key, func(t *Tenant) error {
		t.Settings = settings
		return nil
	})
}

// SetCustomDomain assigns or clears the tenant's custom domain alias,
// enforcing uniqueness against all other tenants.
func (s *Service) SetCustomDomain(ctx context.Context, key, domain string) (*Tenant, error) {
	domain = NormalizeAlias(domain)
	return s.update(ctx, key, func(t *Tenant) error {
		if domain != "" && domain != t.CustomDomain {
			taken, err := s.store.ExistsByAlias(ctx, domain)
			if err != nil {
				return fmt.Errorf("alias check: %w", err)
			}
			if taken {
				return fmt.Errorf("%w: %q", ErrAliasTaken, domain)
			}
		}
		t.CustomDomain = domain
		return nil
	})
}

// SetActive soft-enables or soft-disables a tenant. Tenants are never
// hard-deleted while referencing data exists.
func (s *Service) SetActive(ctx context.Context, key string, active bool) (*Tenant, error) {
	t, err := s.update(ctx, key, func(t *Tenant) error {
		t.Active = active
		return nil
	})
	if err == nil && !active {
		s.log.InfoContext(ctx, "tenant disabled", slog.String("tenant_key", key))
	}
	return t, err
}

func (s *Service) update(ctx context.Context, key string, mutate func(*Tenant) error) (*Tenant, error) {
	t, err := s.store.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	// Remember pre-update aliases so a changed alias is invalidated under
	// both its old and new value.
	stale := t.Aliases()

	if err := mutate(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	for _, alias := range stale {
		s.cache.Delete(ctx, alias)
	}
	s.invalidate(ctx, t)
	return t, nil
}

func (s *Service) invalidate(ctx context.Context, t *Tenant) {
	for _, alias := range t.Aliases() {
		s.cache.Delete(ctx, alias)
	}
}
