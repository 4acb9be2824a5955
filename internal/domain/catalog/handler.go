package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/catalog/{species}", func(cr chi.Router) {
		cr.Get("/", browseHandler(svc))
		cr.Get("/categories", categoriesHandler(svc))
		cr.Get("/products/{productID}", productHandler(svc))
	})
}

type browseResponse struct {
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Sort     string    `json:"sort"`
	Products []Product `json:"products"`
}

func browseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		species, ok := ParseSpecies(chi.URLParam(r, "species"))
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		view := NewView()
		if c := r.URL.Query().Get("category"); c != "" {
			view.SelectedCategory = c
		}
		sortOpt, ok := ParseSortOption(r.URL.Query().Get("sort"))
		if !ok {
			http.Error(w, "unknown sort option", http.StatusBadRequest)
			return
		}
		view.Sort = sortOpt

		products, err := svc.Browse(r.Context(), species, view)
		if err != nil {
			// Lista vacía + 503: el cliente muestra el retry.
			http.Error(w, "catalog unavailable, try again", http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusOK, browseResponse{
			Title:    Title(species, view.SelectedCategory),
			Category: view.SelectedCategory,
			Sort:     string(view.Sort),
			Products: products,
		})
	}
}

func categoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		species, ok := ParseSpecies(chi.URLParam(r, "species"))
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, Categories(species))
	}
}

func productHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		species, ok := ParseSpecies(chi.URLParam(r, "species"))
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "productID"))
		if err != nil {
			http.Error(w, "product id must be numeric", http.StatusBadRequest)
			return
		}

		p, err := svc.ProductByID(r.Context(), species, id)
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case err != nil:
			http.Error(w, "catalog unavailable, try again", http.StatusServiceUnavailable)
		default:
			writeJSON(w, http.StatusOK, p)
		}
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
