package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
	"github.com/eventsphere/campus-events/internal/core/service"
	"github.com/eventsphere/campus-events/internal/infrastructure/http/handlers"
)

type tokenResolver struct {
	identities map[string]domain.Identity
}

func (r *tokenResolver) Session(id string) *domain.Session { return domain.NewSession(id) }

func (r *tokenResolver) Resolve(_ context.Context, s *domain.Session) (domain.Identity, error) {
	id := r.identities[s.AccessToken()]
	s.Publish(id)
	return id, nil
}

func (r *tokenResolver) SignIn(context.Context, *domain.Session, string, string) (*ports.SignInResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (r *tokenResolver) SignUp(context.Context, *domain.Session, string, string, string) (*ports.SignUpResult, error) {
	return nil, domain.ErrInvalidInput
}

func (r *tokenResolver) SignOut(context.Context, *domain.Session) error { return nil }

func (r *tokenResolver) Refresh(context.Context, *domain.Session) (*domain.AuthSession, error) {
	return nil, domain.ErrNoSession
}

func (r *tokenResolver) ConfirmEmail(context.Context, string) error { return nil }

type pendingOnly struct {
	ports.VerificationService
}

func (pendingOnly) ListPendingEvents(context.Context, domain.Identity) ([]domain.EventWithSociety, error) {
	return []domain.EventWithSociety{}, nil
}

func TestRouter(t *testing.T) {
	resolver := &tokenResolver{identities: map[string]domain.Identity{
		"tok-student": {User: &domain.User{ID: "stu-1", Role: domain.RoleStudent}},
		"tok-admin":   {User: &domain.User{ID: "root", Role: domain.RoleSuperAdmin}},
	}}

	e := NewRouter(Deps{
		Log:          zerolog.Nop(),
		Resolver:     resolver,
		Guard:        service.NewRoleGuard(),
		Verification: pendingOnly{},
		Health:       handlers.NewHealthHandler(func() int { return 0 }),
		Readiness:    handlers.NewHealthDependenciesHandler(),
		AllowOrigins: []string{"*"},
	})

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("liveness", func(t *testing.T) {
		if rec := do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("session mints id", func(t *testing.T) {
		rec := do(http.MethodGet, "/auth/session", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("X-Session-ID") == "" {
			t.Fatalf("expected X-Session-ID header")
		}
		if !strings.Contains(rec.Body.String(), `"state":"anonymous"`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/approvals/events", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("student forbidden", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/approvals/events", "tok-student")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("super admin allowed", func(t *testing.T) {
		rec := do(http.MethodGet, "/v1/approvals/events", "tok-admin")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"a@kiit.ac.in","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rec := do(http.MethodGet, "/metrics", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
