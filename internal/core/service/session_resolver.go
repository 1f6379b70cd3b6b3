package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// OperatorCredentials configures the environment-gated operator bootstrap.
// When enabled, signing in with exactly Email/Password yields a super admin
// identity without contacting the auth provider.
type OperatorCredentials struct {
	Enabled  bool
	ID       string
	Name     string
	Email    string
	Password string
}

func (o OperatorCredentials) matches(email, password string) bool {
	if !o.Enabled || o.Email == "" || o.Password == "" {
		return false
	}
	e := subtle.ConstantTimeCompare([]byte(email), []byte(o.Email))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(o.Password))
	return e&p == 1
}

func (o OperatorCredentials) identity() domain.Identity {
	return domain.Identity{
		User: &domain.User{
			ID:    o.ID,
			Name:  o.Name,
			Email: o.Email,
			Role:  domain.RoleSuperAdmin,
		},
		Bypass: true,
	}
}

// SessionResolver reconciles the operator marker, the auth provider session
// and the profile row into a single identity per client session.
type SessionResolver struct {
	auth     ports.AuthProvider
	users    ports.UserRepository
	bypass   ports.BypassStore
	operator OperatorCredentials
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionResolver(
	auth ports.AuthProvider,
	users ports.UserRepository,
	bypass ports.BypassStore,
	operator OperatorCredentials,
	log zerolog.Logger,
) *SessionResolver {
	if operator.ID == "" {
		operator.ID = "super-admin-fixed-id"
	}
	if operator.Name == "" {
		operator.Name = "Super Admin"
	}
	return &SessionResolver{
		auth:     auth,
		users:    users,
		bypass:   bypass,
		operator: operator,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*domain.Session),
	}
}

// Session returns the live session for id, registering a new one when absent.
func (r *SessionResolver) Session(id string) *domain.Session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.sessions[id]; ok {
		return s
	}
	s = domain.NewSession(id)
	r.sessions[id] = s
	return s
}

// Resolve re-derives the session identity: operator marker first, then the
// auth provider session, then anonymous.
func (r *SessionResolver) Resolve(ctx context.Context, s *domain.Session) (domain.Identity, error) {
	s.Touch(r.now())
	s.BeginResolve()

	if id, ok := r.bypassIdentity(ctx, s.ID); ok {
		s.Publish(id)
		return id, nil
	}

	token := s.AccessToken()
	if token == "" {
		s.Publish(domain.Anonymous)
		return domain.Anonymous, nil
	}

	authSession, err := r.auth.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			s.SetAccessToken("")
			s.Publish(domain.Anonymous)
			return domain.Anonymous, nil
		}
		s.Settle()
		return s.Identity(), r.remap(err, "resolve session")
	}

	id := domain.Identity{User: r.loadProfile(ctx, authSession.User)}
	s.Publish(id)
	return id, nil
}

// SignIn authenticates email/password and binds the result to s.
func (r *SessionResolver) SignIn(ctx context.Context, s *domain.Session, email, password string) (*ports.SignInResult, error) {
	s.Touch(r.now())
	email = strings.TrimSpace(email)

	if r.operator.matches(email, password) {
		id := r.operator.identity()
		if err := r.bypass.Set(ctx, s.ID, id); err != nil {
			return nil, r.remap(err, "set operator marker")
		}
		s.Publish(id)
		r.log.Info().Str("session_id", s.ID).Msg("operator bootstrap sign-in")
		return &ports.SignInResult{Identity: id, Route: id.HomeRoute()}, nil
	}

	res, err := r.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, r.remap(err, "sign in")
	}
	if res.Session == nil {
		return nil, domain.ErrEmailNotConfirmed
	}

	// A regular sign-in replaces any operator identity on this session.
	if err := r.bypass.Clear(ctx, s.ID); err != nil {
		r.log.Warn().Err(err).Str("session_id", s.ID).Msg("failed to clear operator marker")
	}

	s.SetAccessToken(res.Session.AccessToken)
	id := domain.Identity{User: r.loadProfile(ctx, res.Session.User)}
	s.Publish(id)

	r.log.Info().Str("session_id", s.ID).Str("user_id", id.UserID()).Str("role", string(id.Role())).Msg("signed in")
	return &ports.SignInResult{Identity: id, Route: id.HomeRoute(), Session: res.Session}, nil
}

// SignUp registers a new identity. The profile row is provisioned asynchronously.
func (r *SessionResolver) SignUp(ctx context.Context, s *domain.Session, email, password, name string) (*ports.SignUpResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	res, err := r.auth.SignUp(ctx, strings.TrimSpace(email), password, map[string]string{"name": name})
	if err != nil {
		return nil, r.remap(err, "sign up")
	}

	out := &ports.SignUpResult{NeedsVerification: res.User != nil && res.Session == nil}
	if res.Session != nil {
		s.SetAccessToken(res.Session.AccessToken)
		out.Identity = domain.Identity{User: r.loadProfile(ctx, res.Session.User)}
		out.Session = res.Session
		s.Publish(out.Identity)
	}
	return out, nil
}

// SignOut clears the operator marker, terminates the provider session and tears s down.
// Local state is cleared even when the provider call fails.
func (r *SessionResolver) SignOut(ctx context.Context, s *domain.Session) error {
	if err := r.bypass.Clear(ctx, s.ID); err != nil {
		r.log.Warn().Err(err).Str("session_id", s.ID).Msg("failed to clear operator marker")
	}

	var signOutErr error
	if token := s.AccessToken(); token != "" {
		if err := r.auth.SignOut(ctx, token); err != nil && !errors.Is(err, domain.ErrNoSession) {
			signOutErr = r.remap(err, "sign out")
		}
	}

	s.SetAccessToken("")
	s.Publish(domain.Anonymous)
	r.drop(s.ID)
	s.Close()

	return signOutErr
}

// Refresh exchanges the session's access token for a fresh one.
func (r *SessionResolver) Refresh(ctx context.Context, s *domain.Session) (*domain.AuthSession, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, domain.ErrNoSession
	}
	as, err := r.auth.RefreshSession(ctx, token)
	if err != nil {
		return nil, r.remap(err, "refresh session")
	}
	s.SetAccessToken(as.AccessToken)
	return as, nil
}

func (r *SessionResolver) ConfirmEmail(ctx context.Context, token string) error {
	if _, err := r.auth.ConfirmEmail(ctx, token); err != nil {
		return r.remap(err, "confirm email")
	}
	return nil
}

// HandleAuthChange re-resolves every live session affected by change and
// republishes its identity. Operator sessions ignore external changes.
func (r *SessionResolver) HandleAuthChange(ctx context.Context, change domain.AuthChange) error {
	for _, s := range r.snapshot() {
		current := s.Identity()
		if current.Bypass {
			continue
		}

		switch change.Kind {
		case domain.ChangeSignedOut:
			if r.ownsToken(s, current, change) {
				s.SetAccessToken("")
				s.Publish(domain.Anonymous)
			}
		case domain.ChangeTokenRefreshed:
			swapped := s.SwapAccessToken(change.PreviousToken, change.AccessToken)
			if swapped || current.UserID() == change.UserID {
				r.republish(ctx, s, current, change)
			}
		case domain.ChangeSignedIn, domain.ChangeUserUpdated:
			if current.UserID() == change.UserID {
				r.republish(ctx, s, current, change)
			}
		}
	}
	return nil
}

// Sweep tears down sessions idle since before cutoff and returns how many were removed.
func (r *SessionResolver) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.IdleSince(cutoff) {
			delete(r.sessions, id)
			s.Close()
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (r *SessionResolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionResolver) ownsToken(s *domain.Session, current domain.Identity, change domain.AuthChange) bool {
	token := s.AccessToken()
	if token == "" {
		return false
	}
	if change.AccessToken != "" {
		return token == change.AccessToken
	}
	return current.UserID() == change.UserID
}

func (r *SessionResolver) republish(ctx context.Context, s *domain.Session, current domain.Identity, change domain.AuthChange) {
	au := domain.AuthUser{ID: change.UserID, Email: change.Email, Metadata: change.Metadata}
	if current.User != nil {
		if au.Email == "" {
			au.Email = current.User.Email
		}
		if au.Metadata == nil {
			au.Metadata = map[string]string{"name": current.User.Name}
		}
	}
	s.Publish(domain.Identity{User: r.loadProfile(ctx, au)})
}

func (r *SessionResolver) bypassIdentity(ctx context.Context, sessionID string) (domain.Identity, bool) {
	id, err := r.bypass.Get(ctx, sessionID)
	if err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("operator marker lookup failed")
		return domain.Identity{}, false
	}
	if id == nil || id.IsAnonymous() {
		return domain.Identity{}, false
	}
	out := *id
	out.Bypass = true
	return out, true
}

// loadProfile reads the profile row for au. A missing row (provisioning lag)
// or a failed read yields a student fallback instead of an error.
func (r *SessionResolver) loadProfile(ctx context.Context, au domain.AuthUser) *domain.User {
	u, err := r.users.FindByID(ctx, au.ID)
	if err == nil && u != nil {
		return u
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		r.log.Warn().Err(err).Str("user_id", au.ID).Msg("profile load failed, using fallback")
	} else {
		r.log.Debug().Str("user_id", au.ID).Msg("profile not provisioned yet, using fallback")
	}
	return fallbackProfile(au)
}

func fallbackProfile(au domain.AuthUser) *domain.User {
	name := strings.TrimSpace(au.Metadata["name"])
	if name == "" {
		name, _, _ = strings.Cut(au.Email, "@")
	}
	return &domain.User{
		ID:    au.ID,
		Name:  name,
		Email: au.Email,
		Role:  domain.RoleStudent,
	}
}

// remap turns transport failures into domain.ErrConnectivity; typed domain
// errors pass through unchanged.
func (r *SessionResolver) remap(err error, op string) error {
	if errors.Is(err, domain.ErrConnectivity) {
		r.log.Warn().Err(err).Str("op", op).Msg("auth backend unreachable")
		return domain.ErrConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		r.log.Warn().Err(err).Str("op", op).Msg("auth backend unreachable")
		return domain.ErrConnectivity
	}
	return err
}

func (r *SessionResolver) snapshot() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *SessionResolver) drop(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
