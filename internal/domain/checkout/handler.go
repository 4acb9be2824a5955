package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/middleware"
	"pet-supply-store/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

// Sessions resuelve el storage namespaceado de la sesión.
type Sessions interface {
	Store(sid string) storage.Store
}

func RegisterRoutes(r chi.Router, svc *Service, sessions Sessions) {
	r.Route("/checkout", func(cr chi.Router) {
		cr.Post("/", startHandler(svc, sessions))
		cr.Get("/", currentHandler(svc, sessions))
		cr.Post("/quantity", quantityHandler(svc, sessions))
		cr.Post("/continue", continueHandler(svc, sessions))
		cr.Post("/payment", paymentHandler(svc, sessions))
		cr.Post("/submit", submitHandler(svc, sessions))
	})
}

type startRequest struct {
	Species string `json:"species"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type paymentRequest struct {
	Method string `json:"method"`
	PaymentDetails
}

type flowResponse struct {
	Flow   Flow   `json:"flow"`
	Totals Totals `json:"totals"`
}

func sessionStore(r *http.Request, sessions Sessions) (storage.Store, bool) {
	sid, ok := middleware.GetSessionID(r.Context())
	if !ok {
		return nil, false
	}
	return sessions.Store(sid), true
}

func respondFlow(w http.ResponseWriter, status int, f Flow) {
	writeJSON(w, status, flowResponse{Flow: f, Totals: f.Totals()})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoFlow), errors.Is(err, ErrNoBuyNow):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrBadTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func startHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		species, ok := catalog.ParseSpecies(req.Species)
		if !ok {
			http.Error(w, "unknown species", http.StatusBadRequest)
			return
		}

		f, err := svc.Start(r.Context(), kv, species)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFlow(w, http.StatusCreated, f)
	}
}

func currentHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		f, err := svc.Current(r.Context(), kv)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFlow(w, http.StatusOK, f)
	}
}

func quantityHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		var req quantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := svc.SetQuantity(r.Context(), kv, req.Quantity)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFlow(w, http.StatusOK, f)
	}
}

func continueHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		f, err := svc.Continue(r.Context(), kv)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFlow(w, http.StatusOK, f)
	}
}

func paymentHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		method, ok := ParsePaymentMethod(req.Method)
		if !ok {
			http.Error(w, "unknown payment method", http.StatusBadRequest)
			return
		}

		f, err := svc.SelectPayment(r.Context(), kv, method, req.PaymentDetails)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFlow(w, http.StatusOK, f)
	}
}

func submitHandler(svc *Service, sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kv, ok := sessionStore(r, sessions)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		conf, err := svc.Submit(r.Context(), kv)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, conf)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
