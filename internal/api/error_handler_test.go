package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid credentials", fmt.Errorf("sign in: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "invalid login credentials"},
		{"unconfirmed", domain.ErrEmailNotConfirmed, http.StatusUnauthorized, "email not confirmed"},
		{"permission", fmt.Errorf("events.verify: %w", domain.ErrPermission), http.StatusForbidden, "permission"},
		{"not found", domain.ErrEventNotFound, http.StatusNotFound, "event not found"},
		{"conflict", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"invalid input", domain.ErrInvalidRole, http.StatusUnprocessableEntity, "unknown role"},
		{"connectivity", fmt.Errorf("resolve: %w", domain.ErrConnectivity), http.StatusServiceUnavailable, "unable to reach the server"},
		{"generator", domain.ErrGeneratorUnavailable, http.StatusServiceUnavailable, "not configured"},
		{"backend", &domain.BackendError{Op: "update event", Err: errors.New("write conflict on events")}, http.StatusBadGateway, "write conflict on events"},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.msg) {
				t.Fatalf("expected body to contain %q, got %s", tc.msg, rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("committed response must not be rewritten")
	}
}
