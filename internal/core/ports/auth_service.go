package ports

import (
	"context"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ResolveCurrentUser verifies a bearer token and loads the user it was
	// issued for. Any failure is reported as domain.ErrUnauthorized.
	ResolveCurrentUser(ctx context.Context, token string) (*domain.User, error)
}
