package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/api/metrics"
	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

type verifyRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=student society_admin super_admin"`
}

// ApprovalHandler serves the super admin moderation surface.
type ApprovalHandler struct {
	verification ports.VerificationService
}

func NewApprovalHandler(verification ports.VerificationService) *ApprovalHandler {
	return &ApprovalHandler{verification: verification}
}

// ListPendingEvents lists events awaiting verification.
//
// @Summary      List pending events
// @Tags         approvals
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Success      200           {array}   domain.EventWithSociety
// @Failure      403           {object}  map[string]string
// @Router       /v1/approvals/events [get]
func (h *ApprovalHandler) ListPendingEvents(c echo.Context) error {
	events, err := h.verification.ListPendingEvents(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// SetEventVerified approves or rejects an event.
//
// @Summary      Verify event
// @Description  Sets the verified flag. Rejecting sets it to false; the call is idempotent.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string         true  "Client session id"
// @Param        id            path      string         true  "Event ID"
// @Param        body          body      verifyRequest  true  "Decision"
// @Success      204
// @Failure      403           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Failure      502           {object}  map[string]string
// @Router       /v1/approvals/events/{id} [patch]
func (h *ApprovalHandler) SetEventVerified(c echo.Context) error {
	var req verifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.verification.SetEventVerified(c.Request().Context(), ctxActor(c), c.Param("id"), *req.Verified); err != nil {
		return err
	}

	decision := "rejected"
	if *req.Verified {
		decision = "approved"
	}
	metrics.EventVerificationsTotal.WithLabelValues(decision).Inc()
	return c.NoContent(http.StatusNoContent)
}

// ListUsers lists all profiles.
//
// @Summary      List users
// @Tags         approvals
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Success      200           {array}   domain.User
// @Failure      403           {object}  map[string]string
// @Router       /v1/approvals/users [get]
func (h *ApprovalHandler) ListUsers(c echo.Context) error {
	users, err := h.verification.ListUsers(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetUserRole reassigns a user's role.
//
// @Summary      Assign role
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string       true  "Client session id"
// @Param        id            path      string       true  "User ID"
// @Param        body          body      roleRequest  true  "Role"
// @Success      204
// @Failure      403           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Failure      422           {object}  map[string]string
// @Router       /v1/approvals/users/{id}/role [patch]
func (h *ApprovalHandler) SetUserRole(c echo.Context) error {
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role := domain.Role(req.Role)
	if err := h.verification.SetUserRole(c.Request().Context(), ctxActor(c), c.Param("id"), role); err != nil {
		return err
	}

	metrics.RoleAssignmentsTotal.WithLabelValues(req.Role).Inc()
	return c.NoContent(http.StatusNoContent)
}
