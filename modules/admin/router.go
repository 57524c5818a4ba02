package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/shopkit/pkg/tenant"
)

// Router exposes the tenant provisioning operations. It operates on the
// directory itself, so it is mounted outside the tenant resolution
// middleware; protecting it (network policy, gateway auth) is the
// deployment's responsibility.
func Router(svc *tenant.Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/tenants", createTenant(svc))
	r.Put("/tenants/{key}/branding", updateBranding(svc))
	r.Put("/tenants/{key}/settings", updateSettings(svc))
	r.Put("/tenants/{key}/domain", setCustomDomain(svc))
	r.Put("/tenants/{key}/active", setActive(svc))

	return r
}

type createRequest struct {
	Subdomain    string          `json:"subdomain"`
	CustomDomain string          `json:"custom_domain,omitempty"`
	PathSegment  string          `json:"path_segment,omitempty"`
	Name         string          `json:"name"`
	ContactEmail string          `json:"contact_email,omitempty"`
	Branding     tenant.Branding `json:"branding"`
	Settings     tenant.Settings `json:"settings"`
}

func createTenant(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		t, err := svc.Create(r.Context(), tenant.CreateParams{
			Subdomain:    req.Subdomain,
			CustomDomain: req.CustomDomain,
			PathSegment:  req.PathSegment,
			Name:         req.Name,
			ContactEmail: req.ContactEmail,
			Branding:     req.Branding,
			Settings:     req.Settings,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func updateBranding(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var branding tenant.Branding
		if err := json.NewDecoder(r.Body).Decode(&branding); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		t, err := svc.UpdateBranding(r.Context(), chi.URLParam(r, "key"), branding)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func updateSettings(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings tenant.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		t, err := svc.UpdateSettings(r.Context(), chi.URLParam(r, "key"), settings)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func setCustomDomain(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CustomDomain string `json:"custom_domain"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		t, err := svc.SetCustomDomain(r.Context(), chi.URLParam(r, "key"), req.CustomDomain)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func setActive(svc *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		t, err := svc.SetActive(r.Context(), chi.URLParam(r, "key"), req.Active)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrAliasTaken):
		http.Error(w, "Alias already in use", http.StatusConflict)
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		http.Error(w, "Invalid identifier", http.StatusBadRequest)
	case errors.Is(err, tenant.ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
