package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Router exposes the catalog over HTTP. It must be mounted behind the
// tenant middleware: every handler relies on the ambient tenant scope
// and surfaces missing scope as a server error.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/products", listProducts(svc))
	r.Post("/products", createProduct(svc))
	r.Get("/products/{id}", getProduct(svc))
	r.Put("/products/{id}", updateProduct(svc))
	r.Delete("/products/{id}", deleteProduct(svc))
	r.Get("/search", searchProducts(svc))

	return r
}

type listResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
}

func listProducts(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		products, err := svc.List(r.Context(), int64(limit), int64(offset))
		if err != nil {
			writeError(w, err)
			return
		}
		total, err := svc.Count(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if products == nil {
			products = []Product{}
		}
		writeJSON(w, http.StatusOK, listResponse{Products: products, Total: total})
	}
}

func getProduct(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func createProduct(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, ErrInvalidProduct)
			return
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := svc.Save(r.Context(), &p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func updateProduct(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, ErrInvalidProduct)
			return
		}
		p.ID = chi.URLParam(r, "id")
		if err := svc.Save(r.Context(), &p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deleteProduct(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type searchResponse struct {
	Total int64       `json:"total"`
	Hits  []searchHit `json:"hits"`
}

type searchHit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
}

func searchProducts(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := queryInt(r, "size", 20)
		from := queryInt(r, "from", 0)

		res, err := svc.Search(r.Context(), r.URL.Query().Get("q"), size, from)
		if err != nil {
			writeError(w, err)
			return
		}

		out := searchResponse{Total: res.Total, Hits: make([]searchHit, 0, len(res.Hits))}
		for _, h := range res.Hits {
			out.Hits = append(out.Hits, searchHit{ID: h.ID, Score: h.Score, Source: h.Source})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		http.Error(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidProduct):
		http.Error(w, "Invalid product", http.StatusBadRequest)
	case errors.Is(err, ErrSearchUnavailable):
		http.Error(w, "Search unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
