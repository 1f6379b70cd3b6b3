package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// AuthRepository persists the auth provider's credentials.
type AuthRepository interface {
	Create(ctx context.Context, cred *domain.Credential) error
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	// Confirm marks the credential holding token as confirmed and clears the token.
	Confirm(ctx context.Context, token string) (*domain.Credential, error)
}
