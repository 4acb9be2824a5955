package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/middleware"
	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

// Sessions es lo que el handler necesita del manager de sesiones.
// Lo implementa session.Manager; acá solo se declara la vista mínima.
type Sessions interface {
	Store(sid string) storage.Store
	Aggregator(ctx context.Context, sid string) *Aggregator
}

func RegisterRoutes(r chi.Router, sessions Sessions, log logger.Logger) {
	r.Route("/cart", func(cr chi.Router) {
		// Badge agregado de las seis especies.
		cr.Get("/count", badgeHandler(sessions))

		cr.Route("/{species}", func(sr chi.Router) {
			sr.Get("/", listHandler(sessions, log))
			sr.Post("/items", addHandler(sessions, log))
			sr.Delete("/items/{productID}", removeHandler(sessions, log))
			sr.Delete("/", clearHandler(sessions, log))
			sr.Post("/buy-now", buyNowHandler(sessions, log))
		})
	})
}

type cartResponse struct {
	Species string `json:"species"`
	Lines   []Line `json:"lines"`
	Count   int    `json:"count"`
}

type addRequest struct {
	Product catalog.Product `json:"product"`
}

func storeFor(r *http.Request, sessions Sessions, log logger.Logger) (*Store, bool) {
	sid, ok := middleware.GetSessionID(r.Context())
	if !ok {
		return nil, false
	}
	species, ok := catalog.ParseSpecies(chi.URLParam(r, "species"))
	if !ok {
		return nil, false
	}
	return NewStore(sessions.Store(sid), species, log), true
}

func listHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, sessions, log)
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		lines := st.Lines(r.Context())
		writeJSON(w, http.StatusOK, cartResponse{
			Species: string(st.Species()),
			Lines:   lines,
			Count:   totalOf(lines),
		})
	}
}

func addHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, sessions, log)
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		var req addRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		lines, err := st.AddOrIncrement(r.Context(), req.Product)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, cartResponse{
			Species: string(st.Species()),
			Lines:   lines,
			Count:   totalOf(lines),
		})
	}
}

func removeHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, sessions, log)
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "productID"))
		if err != nil {
			http.Error(w, "product id must be numeric", http.StatusBadRequest)
			return
		}

		lines, err := st.Remove(r.Context(), id)
		switch {
		case errors.Is(err, ErrLineNotFound):
			http.Error(w, "cart line not found", http.StatusNotFound)
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, cartResponse{
				Species: string(st.Species()),
				Lines:   lines,
				Count:   totalOf(lines),
			})
		}
	}
}

func clearHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, sessions, log)
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		if err := st.Clear(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func buyNowHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, sessions, log)
		if !ok {
			http.Error(w, "unknown species", http.StatusNotFound)
			return
		}

		var req addRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		line, err := st.BuyNow(r.Context(), req.Product)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, line)
	}
}

type badgeResponse struct {
	Count int `json:"count"`
}

func badgeHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := middleware.GetSessionID(r.Context())
		if !ok {
			writeJSON(w, http.StatusOK, badgeResponse{Count: 0})
			return
		}
		agg := sessions.Aggregator(r.Context(), sid)
		writeJSON(w, http.StatusOK, badgeResponse{Count: agg.Badge(r.Context())})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
