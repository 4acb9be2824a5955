package auth

import "context"

// UsersAPI es el puerto hacia el backend mock de usuarios
// (recurso CRUD genérico; lo implementa adapters/usersapi).
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	AssignToken(ctx context.Context, userID int, token string) error
}
