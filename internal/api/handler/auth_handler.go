package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/api/metrics"
	"github.com/eventsphere/campus-events/internal/api/middleware"
	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

const defaultHeartbeat = 25 * time.Second

type AuthHandler struct {
	resolver  ports.SessionResolver
	log       zerolog.Logger
	heartbeat time.Duration
}

func NewAuthHandler(resolver ports.SessionResolver, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{resolver: resolver, log: log, heartbeat: defaultHeartbeat}
}

// SignUp registers a new account.
//
// @Summary      Sign up
// @Description  Creates the identity. When email confirmation is required no session is issued and needs_verification is true.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string         false  "Client session id"
// @Param        body          body      signUpRequest  true   "Account details"
// @Success      201           {object}  signUpResponse
// @Failure      409           {object}  map[string]string
// @Failure      422           {object}  map[string]string
// @Failure      503           {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	res, err := h.resolver.SignUp(c.Request().Context(), s, req.Email, req.Password, req.Name)
	if err != nil {
		metrics.SignUpsTotal.WithLabelValues("failure").Inc()
		return err
	}

	resp := signUpResponse{NeedsVerification: res.NeedsVerification}
	if res.Session != nil {
		metrics.SignUpsTotal.WithLabelValues("active").Inc()
		middleware.SetIdentity(c, res.Identity)
		ir := newIdentityResponse(s, res.Identity)
		resp.identityResponse = &ir
		resp.tokenResponse = newTokenResponse(res.Session)
	} else {
		metrics.SignUpsTotal.WithLabelValues("pending_confirmation").Inc()
	}

	return c.JSON(http.StatusCreated, resp)
}

// SignIn authenticates the session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string         false  "Client session id"
// @Param        body          body      signInRequest  true   "Credentials"
// @Success      200           {object}  signInResponse
// @Failure      401           {object}  map[string]string
// @Failure      503           {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	res, err := h.resolver.SignIn(c.Request().Context(), s, req.Email, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("password", "failure").Inc()
		return err
	}

	method := "password"
	if res.Identity.Bypass {
		method = "operator"
	}
	metrics.SignInsTotal.WithLabelValues(method, "success").Inc()
	middleware.SetIdentity(c, res.Identity)

	resp := signInResponse{identityResponse: newIdentityResponse(s, res.Identity), tokenResponse: newTokenResponse(res.Session)}
	resp.Route = res.Route
	return c.JSON(http.StatusOK, resp)
}

// SignOut ends the session.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Success      200           {object}  messageResponse
// @Failure      503           {object}  map[string]string
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	err = h.resolver.SignOut(c.Request().Context(), s)
	middleware.SetIdentity(c, domain.Anonymous)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out", Route: domain.Anonymous.HomeRoute()})
}

// Refresh exchanges the session's access token for a new one.
//
// @Summary      Refresh access token
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Success      200           {object}  tokenResponse
// @Failure      401           {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	as, err := h.resolver.Refresh(c.Request().Context(), s)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(as))
}

// Confirm confirms an email address.
//
// @Summary      Confirm email
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Confirmation token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/confirm [get]
func (h *AuthHandler) Confirm(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	if err := h.resolver.ConfirmEmail(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "email confirmed, you can now sign in"})
}

// Session returns the resolved identity of the calling session.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Client session id"
// @Success      200           {object}  identityResponse
// @Failure      503           {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newIdentityResponse(s, ctxActor(c)))
}

// Events streams identity changes of the calling session as server-sent events.
// The stream ends when the client disconnects or the session is torn down.
//
// @Summary      Identity change stream
// @Tags         auth
// @Produce      text/event-stream
// @Param        X-Session-ID  header  string  true  "Client session id"
// @Success      200
// @Router       /auth/session/events [get]
func (h *AuthHandler) Events(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	updates, cancel := s.Watch()
	defer cancel()

	metrics.IdentityStreams.Inc()
	defer metrics.IdentityStreams.Dec()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "identity", newIdentityResponse(s, s.Identity())); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Touch(time.Now())
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case id, ok := <-updates:
			if !ok {
				h.log.Debug().Str("session_id", s.ID).Msg("session closed, ending identity stream")
				return nil
			}
			if err := writeEvent(w, "identity", newIdentityResponse(s, id)); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
