package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/studiosvc/domain"
)

// OAuthStateRepositoryImpl implements domain.OAuthStateStore using Redis
type OAuthStateRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewOAuthStateRepository creates a new OAuth state store
func NewOAuthStateRepository(client *redis.Client) *OAuthStateRepositoryImpl {
	return &OAuthStateRepositoryImpl{client: client, prefix: "oauth:state:"}
}

var _ domain.OAuthStateStore = (*OAuthStateRepositoryImpl)(nil)

// Save implements domain.OAuthStateStore
func (r *OAuthStateRepositoryImpl) Save(ctx context.Context, state, returnTo string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, r.prefix+state, returnTo, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("oauth state collision")
	}
	return nil
}

// Consume implements domain.OAuthStateStore. A state can be consumed once.
func (r *OAuthStateRepositoryImpl) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", domain.ErrOAuthStateInvalid
	}
	returnTo, err := r.client.GetDel(ctx, r.prefix+state).Result()
	if err == redis.Nil {
		return "", domain.ErrOAuthStateInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to read oauth state: %w", err)
	}
	return returnTo, nil
}
