package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// AuthProvider is the auth subsystem the session resolver delegates to.
// Implementations publish an AuthChange for every state transition.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthResult, error)
	// GetSession returns domain.ErrNoSession when the token is missing, expired or revoked.
	GetSession(ctx context.Context, accessToken string) (*domain.AuthSession, error)
	RefreshSession(ctx context.Context, accessToken string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	ConfirmEmail(ctx context.Context, token string) (*domain.AuthUser, error)
}
