package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

const minPasswordLen = 6

// AuthConfig tunes the auth provider.
type AuthConfig struct {
	JWTSecret                string
	TokenTTL                 time.Duration
	RequireEmailConfirmation bool
}

// AuthService is the auth provider: credentials, bearer sessions and change notifications.
type AuthService struct {
	repo        ports.AuthRepository
	revocations ports.TokenRevocations
	publisher   ports.ChangePublisher
	cfg         AuthConfig
	log         zerolog.Logger
	now         func() time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(
	repo ports.AuthRepository,
	revocations ports.TokenRevocations,
	publisher ports.ChangePublisher,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:        repo,
		revocations: revocations,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(metadata["name"]),
		Confirmed:    !s.cfg.RequireEmailConfirmation,
		CreatedAt:    s.now().UTC(),
	}
	if s.cfg.RequireEmailConfirmation {
		cred.ConfirmationToken = uuid.NewString()
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		return nil, err
	}

	user := toAuthUser(cred)
	s.publish(ctx, domain.AuthChange{
		Kind:     domain.ChangeUserCreated,
		UserID:   user.ID,
		Email:    user.Email,
		Metadata: user.Metadata,
	})

	if s.cfg.RequireEmailConfirmation {
		// Mail delivery is handled outside this service; the link is logged for operators.
		s.log.Info().
			Str("user_id", cred.ID).
			Str("email", email).
			Str("confirm_path", "/auth/confirm?token="+cred.ConfirmationToken).
			Msg("email confirmation pending")
		return &domain.AuthResult{User: &user}, nil
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.AuthChange{Kind: domain.ChangeSignedIn, UserID: user.ID, Email: user.Email, AccessToken: session.AccessToken})
	return &domain.AuthResult{User: &user, Session: session}, nil
}

func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !cred.Confirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	user := toAuthUser(cred)
	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.AuthChange{Kind: domain.ChangeSignedIn, UserID: user.ID, Email: user.Email, AccessToken: session.AccessToken})
	return &domain.AuthResult{User: &user, Session: session}, nil
}

func (s *AuthService) GetSession(ctx context.Context, accessToken string) (*domain.AuthSession, error) {
	claims, err := s.parse(accessToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrNoSession
	}

	return sessionFromClaims(accessToken, claims), nil
}

func (s *AuthService) RefreshSession(ctx context.Context, accessToken string) (*domain.AuthSession, error) {
	current, err := s.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	next, err := s.issue(current.User)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, accessToken); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.AuthChange{
		Kind:          domain.ChangeTokenRefreshed,
		UserID:        current.User.ID,
		Email:         current.User.Email,
		AccessToken:   next.AccessToken,
		PreviousToken: accessToken,
	})
	return next, nil
}

func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, accessToken); err != nil {
		return err
	}
	s.publish(ctx, domain.AuthChange{Kind: domain.ChangeSignedOut, UserID: claims.Subject, AccessToken: accessToken})
	return nil
}

func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (*domain.AuthUser, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrInvalidToken
	}
	cred, err := s.repo.Confirm(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	user := toAuthUser(cred)
	return &user, nil
}

func (s *AuthService) issue(user domain.AuthUser) (*domain.AuthSession, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Metadata["name"],
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.AuthSession{AccessToken: signed, ExpiresAt: exp.UTC(), User: user}, nil
}

func (s *AuthService) parse(accessToken string) (*sessionClaims, error) {
	if accessToken == "" {
		return nil, domain.ErrNoSession
	}
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrNoSession
	}
	return claims, nil
}

func (s *AuthService) revoke(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, change domain.AuthChange) {
	change.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.log.Warn().Err(err).Str("kind", string(change.Kind)).Str("user_id", change.UserID).Msg("failed to publish auth change")
	}
}

func sessionFromClaims(token string, c *sessionClaims) *domain.AuthSession {
	user := domain.AuthUser{ID: c.Subject, Email: c.Email}
	if c.Name != "" {
		user.Metadata = map[string]string{"name": c.Name}
	}
	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time.UTC()
	}
	return &domain.AuthSession{AccessToken: token, ExpiresAt: exp, User: user}
}

func toAuthUser(c *domain.Credential) domain.AuthUser {
	u := domain.AuthUser{ID: c.ID, Email: c.Email}
	if c.Name != "" {
		u.Metadata = map[string]string{"name": c.Name}
	}
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
