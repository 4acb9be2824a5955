package usersapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pet-supply-store/internal/domain/auth"
	"pet-supply-store/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("users api client not configured")
)

// Client implementa auth.UsersAPI contra el backend mock de usuarios
// (json-server style: GET /users, POST /users, PATCH /users/:id).
type Client struct {
	http *httpclient.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("usersapi: %w", err)
	}
	return &Client{http: hc}, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]auth.User, error) {
	if c == nil || c.http == nil {
		return nil, ErrNotConfigured
	}

	var users []auth.User
	if err := c.http.GetJSON(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("usersapi: list users: %w", err)
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	if c == nil || c.http == nil {
		return auth.User{}, ErrNotConfigured
	}

	var created auth.User
	if err := c.http.PostJSON(ctx, "/users", u, &created); err != nil {
		return auth.User{}, fmt.Errorf("usersapi: create user: %w", err)
	}
	return created, nil
}

func (c *Client) AssignToken(ctx context.Context, userID int, token string) error {
	if c == nil || c.http == nil {
		return ErrNotConfigured
	}

	body := map[string]string{"token": token}
	path := "/users/" + strconv.Itoa(userID)
	if err := c.http.PatchJSON(ctx, path, body, nil); err != nil {
		return fmt.Errorf("usersapi: assign token: %w", err)
	}
	return nil
}
