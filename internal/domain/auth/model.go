package auth

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSuperseded: terminó un request cuando ya había empezado otro
	// más nuevo para el mismo store; el resultado stale se descarta
	// sin tocar estado (guard de generación).
	ErrSuperseded = errors.New("request superseded by a newer one")
)

// Status de un request de auth. Signup y signin se trackean por
// separado; failed retiene el mensaje hasta el próximo intento.
// @Enum idle, pending, succeeded, failed
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// RequestState es status + mensaje de error (vacío salvo failed).
type RequestState struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// User es el registro del backend mock de usuarios (json-server
// style: GET/POST/PATCH /users).
type User struct {
	ID       int    `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Image    string `json:"image,omitempty"`
	Token    string `json:"token,omitempty"`
}

// Session es lo que queda persistido al loguearse. Las tres claves
// viven juntas y se limpian juntas en logout.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claves de persistencia dentro del namespace de sesión.
const (
	KeyToken = "token"
	KeyEmail = "email"
	KeyName  = "name"
)
