package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// UserCache keeps recently resolved users so authenticated requests skip the
// primary store. Key format: user:<id>
type UserCache struct {
	client *redis.Client
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// cachedUser is the stored form. Password hashes never leave the primary store.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get returns the cached user or nil on a miss.
func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &domain.User{
		ID:        cu.ID,
		Email:     cu.Email,
		Name:      cu.Name,
		Role:      domain.Role(cu.Role),
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, nil
}

// Set stores user for ttl.
func (c *UserCache) Set(ctx context.Context, user *domain.User, ttl time.Duration) error {
	raw, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, ttl).Err()
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
