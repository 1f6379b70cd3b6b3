package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// BypassStore keeps the operator marker for a client session.
// Key format: bypass:<session_id>
type BypassStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBypassStore(client *redis.Client, ttl time.Duration) *BypassStore {
	return &BypassStore{client: client, ttl: ttl}
}

// Get returns nil, nil when the session carries no marker.
func (b *BypassStore) Get(ctx context.Context, sessionID string) (*domain.Identity, error) {
	raw, err := b.client.Get(ctx, b.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("bypass get: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("bypass decode: %w", err)
	}
	return &id, nil
}

func (b *BypassStore) Set(ctx context.Context, sessionID string, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("bypass encode: %w", err)
	}
	return b.client.Set(ctx, b.key(sessionID), raw, b.ttl).Err()
}

func (b *BypassStore) Clear(ctx context.Context, sessionID string) error {
	return b.client.Del(ctx, b.key(sessionID)).Err()
}

func (b *BypassStore) key(sessionID string) string {
	return "bypass:" + sessionID
}
