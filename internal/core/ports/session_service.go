package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// SignInResult is the resolved identity after a successful sign-in and the
// route the client should navigate to.
type SignInResult struct {
	Identity domain.Identity
	Route    string
	Session  *domain.AuthSession // nil for the operator bootstrap path
}

// SignUpResult reports whether the provider is waiting for email confirmation.
type SignUpResult struct {
	NeedsVerification bool
	Identity          domain.Identity
	Session           *domain.AuthSession
}

// SessionResolver owns client sessions and resolves who is behind each one.
type SessionResolver interface {
	// Session returns the live session for id, creating it when absent.
	Session(id string) *domain.Session
	Resolve(ctx context.Context, s *domain.Session) (domain.Identity, error)
	SignIn(ctx context.Context, s *domain.Session, email, password string) (*SignInResult, error)
	SignUp(ctx context.Context, s *domain.Session, email, password, name string) (*SignUpResult, error)
	SignOut(ctx context.Context, s *domain.Session) error
	Refresh(ctx context.Context, s *domain.Session) (*domain.AuthSession, error)
	ConfirmEmail(ctx context.Context, token string) error
}
