package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-supply-store/internal/middleware"
	"pet-supply-store/internal/platform/httpclient"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/session", sessionHandler(svc))
	})
}

type registerRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

type registerResponse struct {
	ID       int    `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func storeFor(r *http.Request, svc *Service) (*Store, bool) {
	sid, ok := middleware.GetSessionID(r.Context())
	if !ok {
		return nil, false
	}
	return svc.ForSession(sid), true
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, svc)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := st.SignUp(r.Context(), SignUpInput{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Gender:   req.Gender,
			Password: req.Password,
			Image:    req.Image,
		})
		if err != nil {
			writeAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, registerResponse{
			ID:       u.ID,
			FullName: u.FullName,
			Email:    u.Email,
		})
	}
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, svc)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := st.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, svc)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}

		if err := st.Logout(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := storeFor(r, svc)
		if !ok {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, st.Snapshot())
	}
}

// writeAuthError mapea errores de dominio a status. Los mensajes
// van en JSON porque son los que el cliente muestra inline.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest

	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.As(err, &httpErr):
		status = http.StatusBadGateway
	default:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
