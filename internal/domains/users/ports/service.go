package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
)

// Principal is an authenticated caller's identity and role, resolved from a
// bearer credential.
type Principal struct {
	ID       string
	Username string
	Role     domain.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

// Service exposes user bounded context use cases.
type Service interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, username string)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Authenticate resolves a bearer token to a principal, failing with
	// ErrInvalidSession for unknown or expired tokens.
	Authenticate(ctx context.Context, token string) (*Principal, error)
}
