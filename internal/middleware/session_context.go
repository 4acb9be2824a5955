package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const sessionKey ctxKey = "session"

const (
	// HeaderSessionID lo manda el cliente; si falta, probamos cookie
	// y como último recurso acuñamos un id nuevo.
	HeaderSessionID = "X-Session-ID"
	CookieSessionID = "session_id"
)

// SessionContext resuelve la identidad de sesión del request
// (el análogo del storage por navegador del cliente web).
// Siempre hay sesión: si el request no trae una, se acuña y se
// devuelve en header + cookie para que el cliente la repita.
func SessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(HeaderSessionID))

		if sid == "" {
			if c, err := r.Cookie(CookieSessionID); err == nil {
				sid = strings.TrimSpace(c.Value)
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieSessionID,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		w.Header().Set(HeaderSessionID, sid)

		ctx := context.WithValue(r.Context(), sessionKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSessionID(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}
