package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/modules/catalog"
	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

type fakeDirectory struct {
	tenants map[string]*tenant.Tenant
}

func (d *fakeDirectory) Lookup(ctx context.Context, alias string) (*tenant.Tenant, error) {
	t, ok := d.tenants[tenant.NormalizeAlias(alias)]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (d *fakeDirectory) ExistsByAlias(ctx context.Context, alias string) (bool, error) {
	_, ok := d.tenants[tenant.NormalizeAlias(alias)]
	return ok, nil
}

// newTestServer mounts the catalog router behind the subdomain resolver
// middleware, the way it is wired in production.
func newTestServer(t *testing.T, svc *catalog.Service) *httptest.Server {
	t.Helper()

	dir := &fakeDirectory{tenants: map[string]*tenant.Tenant{
		"store1": {Key: "T1", Subdomain: "store1", Active: true},
		"store2": {Key: "T2", Subdomain: "store2", Active: true},
	}}

	mw := tenant.Middleware(tenant.NewSubdomainResolver("shops.example.com"), dir)
	srv := httptest.NewServer(mw(catalog.Router(svc)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, host, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Host = host
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestRouter_TenantScopedCRUD(t *testing.T) {
	t.Parallel()

	svc := catalog.NewService(newMemRepo(), newMemCache(), newMemIndex())
	srv := newTestServer(t, svc)

	res := do(t, srv, http.MethodPost, "store1.shops.example.com", "/products",
		`{"id":"p1","sku":"sku-1","name":"Espresso","price_cents":1200,"stock":8,"active":true}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	t.Run("owner reads the product", func(t *testing.T) {
		res := do(t, srv, http.MethodGet, "store1.shops.example.com", "/products/p1", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		var p catalog.Product
		require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
		assert.Equal(t, "Espresso", p.Name)
	})

	t.Run("another tenant sees not found", func(t *testing.T) {
		res := do(t, srv, http.MethodGet, "store2.shops.example.com", "/products/p1", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("another tenant cannot overwrite", func(t *testing.T) {
		res := do(t, srv, http.MethodPut, "store2.shops.example.com", "/products/p1",
			`{"sku":"sku-1","name":"Hijack","price_cents":1,"stock":0}`)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("unknown store is rejected before the handler", func(t *testing.T) {
		res := do(t, srv, http.MethodGet, "store9.shops.example.com", "/products/p1", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("bare domain carries no identifier", func(t *testing.T) {
		res := do(t, srv, http.MethodGet, "example.com", "/products/p1", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("lists are partitioned", func(t *testing.T) {
		res := do(t, srv, http.MethodGet, "store2.shops.example.com", "/products", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		var out struct {
			Products []catalog.Product `json:"products"`
			Total    int64             `json:"total"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		assert.Empty(t, out.Products)
		assert.Zero(t, out.Total)
	})

	t.Run("invalid payload is a bad request", func(t *testing.T) {
		res := do(t, srv, http.MethodPost, "store1.shops.example.com", "/products", `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("delete then read reports not found", func(t *testing.T) {
		res := do(t, srv, http.MethodDelete, "store1.shops.example.com", "/products/p1", "")
		require.Equal(t, http.StatusNoContent, res.StatusCode)

		res = do(t, srv, http.MethodGet, "store1.shops.example.com", "/products/p1", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
