package ports

import (
	"context"
	"time"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// BypassStore holds the session-scoped operator marker. Get returns a nil
// identity when no marker is set for the session.
type BypassStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Identity, error)
	Set(ctx context.Context, sessionID string, identity domain.Identity) error
	Clear(ctx context.Context, sessionID string) error
}

// TokenRevocations records access tokens terminated before their expiry.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ChangePublisher fans auth changes out to every instance.
type ChangePublisher interface {
	Publish(ctx context.Context, change domain.AuthChange) error
}

// AuthChangeHandler reacts to a published auth change.
type AuthChangeHandler interface {
	HandleAuthChange(ctx context.Context, change domain.AuthChange) error
}
