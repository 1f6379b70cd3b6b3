package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var be *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrConnectivity):
		return http.StatusServiceUnavailable, domain.ErrConnectivity.Error()
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable, domain.ErrGeneratorUnavailable.Error()
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, authMessage(err)
	case errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden, "you do not have permission to perform this action"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, conflictMessage(err)
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &be):
		// Store failures are shown verbatim.
		log.Warn().Err(err).Str("op", be.Op).Str("path", c.Path()).Msg("backend error")
		return http.StatusBadGateway, be.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid login credentials"
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return "email not confirmed"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid or expired confirmation token"
	default:
		return "authentication required"
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "user already exists"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already registered for this event"
	default:
		return err.Error()
	}
}
