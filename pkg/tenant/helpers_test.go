package tenant_test

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// memStore is an in-memory tenant.Store used across the package tests.
type memStore struct {
	mu      sync.RWMutex
	byKey   map[string]*tenant.Tenant
	failErr error
}

func newMemStore(tenants ...*tenant.Tenant) *memStore {
	s := &memStore{byKey: make(map[string]*tenant.Tenant)}
	for _, t := range tenants {
		cp := *t
		s.byKey[t.Key] = &cp
	}
	return s
}

func (s *memStore) Lookup(ctx context.Context, identifier string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	id := tenant.NormalizeAlias(identifier)
	for _, t := range s.byKey {
		for _, alias := range t.Aliases() {
			if alias == id {
				cp := *t
				return &cp, nil
			}
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (s *memStore) ExistsByAlias(ctx context.Context, alias string) (bool, error) {
	_, err := s.Lookup(ctx, alias)
	if errors.Is(err, tenant.ErrTenantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *memStore) GetByKey(ctx context.Context, key string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byKey[key]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) Insert(ctx context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byKey {
		for _, alias := range existing.Aliases() {
			for _, candidate := range t.Aliases() {
				if alias == candidate {
					return tenant.ErrAliasTaken
				}
			}
		}
	}
	cp := *t
	s.byKey[t.Key] = &cp
	return nil
}

func (s *memStore) Update(ctx context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[t.Key]; !ok {
		return tenant.ErrTenantNotFound
	}
	cp := *t
	s.byKey[t.Key] = &cp
	return nil
}

func storeTenant(key, subdomain string) *tenant.Tenant {
	return &tenant.Tenant{
		Key:       key,
		Subdomain: subdomain,
		Name:      subdomain,
		Active:    true,
		Settings: tenant.Settings{
			Currency:          "USD",
			LowStockThreshold: 5,
		},
	}
}
