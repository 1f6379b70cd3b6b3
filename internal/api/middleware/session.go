package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// HeaderSessionID carries the client session id, the analogue of a browser tab.
const HeaderSessionID = "X-Session-ID"

const (
	ctxSession  = "session"
	ctxIdentity = "identity"
)

// Session binds every request to a client session and resolves its identity.
// A missing session id is minted and echoed back so the client can reuse it.
// A bearer token, when present, is adopted by the session before resolving.
func Session(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderSessionID))
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderSessionID, id)

			s := resolver.Session(id)
			if token, ok := bearerToken(c.Request()); ok && token != s.AccessToken() {
				s.SetAccessToken(token)
			}

			identity, err := resolver.Resolve(c.Request().Context(), s)
			if err != nil {
				return err
			}

			SetSession(c, s)
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SessionFrom returns the session bound by the Session middleware.
func SessionFrom(c echo.Context) (*domain.Session, bool) {
	s, ok := c.Get(ctxSession).(*domain.Session)
	return s, ok && s != nil
}

// IdentityFrom returns the resolved identity, anonymous when none was set.
func IdentityFrom(c echo.Context) domain.Identity {
	id, _ := c.Get(ctxIdentity).(domain.Identity)
	return id
}

// SetSession binds s to the request.
func SetSession(c echo.Context, s *domain.Session) {
	c.Set(ctxSession, s)
}

// SetIdentity replaces the request identity after a sign-in or sign-out.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(ctxIdentity, id)
}

// RequireIdentity rejects anonymous requests.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c).IsAnonymous() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
