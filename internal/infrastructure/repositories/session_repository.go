package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/studiosvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRevocationRepository using Redis
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewSessionRepository creates a new session revocation repository
func NewSessionRepository(client *redis.Client) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:revoked:",
		now:    time.Now,
	}
}

var _ domain.SessionRevocationRepository = (*SessionRepositoryImpl)(nil)

// Revoke implements domain.SessionRevocationRepository. The entry lives
// until the token would have expired anyway.
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+sessionID, 1, ttl).Err()
}

// IsRevoked implements domain.SessionRevocationRepository
func (r *SessionRepositoryImpl) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.prefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
