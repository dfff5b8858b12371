package ports

import (
	"context"
	"time"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// UserRepository defines the interface for user identity persistence.
// Implementations return domain.ErrUserNotFound for missing users and
// domain.ErrUserExists when the email unique constraint rejects an insert.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// UserCache is an optional read-through cache for users resolved from
// bearer tokens. A miss returns (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User, ttl time.Duration) error
}
