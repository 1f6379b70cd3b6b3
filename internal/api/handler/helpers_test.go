package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/api/middleware"
	"github.com/eventsphere/campus-events/internal/core/domain"
)

var (
	student      = domain.Identity{User: &domain.User{ID: "stu-1", Name: "Riya", Role: domain.RoleStudent}}
	admin        = domain.Identity{User: &domain.User{ID: "root", Name: "Super Admin", Role: domain.RoleSuperAdmin}, Bypass: true}
	societyAdmin = domain.Identity{User: &domain.User{ID: "soc-admin", Role: domain.RoleSocietyAdmin, SocietyID: "soc-1"}}
)

// newContext builds an echo context bound to a fresh session holding actor.
func newContext(method, target, body string, actor domain.Identity) (echo.Context, *httptest.ResponseRecorder, *domain.Session) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	s := domain.NewSession("tab-1")
	s.Publish(actor)
	middleware.SetSession(c, s)
	middleware.SetIdentity(c, actor)
	return c, rec, s
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}
