package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocations records revoked access tokens until they would have expired.
// Key format: revoked:<token_id>
type TokenRevocations struct {
	client *redis.Client
}

func NewTokenRevocations(client *redis.Client) *TokenRevocations {
	return &TokenRevocations{client: client}
}

func (t *TokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := t.client.Set(ctx, t.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (t *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (t *TokenRevocations) key(tokenID string) string {
	return "revoked:" + tokenID
}
