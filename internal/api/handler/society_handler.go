package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/core/ports"
)

type createSocietyRequest struct {
	Name         string `json:"name"          validate:"required,max=120"`
	Description  string `json:"description"   validate:"max=2000"`
	FICName      string `json:"fic_name"      validate:"required,max=120"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
}

type SocietyHandler struct {
	societies ports.SocietyService
}

func NewSocietyHandler(societies ports.SocietyService) *SocietyHandler {
	return &SocietyHandler{societies: societies}
}

// List returns societies newest first.
//
// @Summary      List societies
// @Tags         societies
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Client session id"
// @Param        limit         query     int     false  "Maximum number of societies"
// @Success      200           {array}   domain.Society
// @Failure      401           {object}  map[string]string
// @Router       /v1/societies [get]
func (h *SocietyHandler) List(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	societies, err := h.societies.List(c.Request().Context(), ctxActor(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, societies)
}

// Create registers a society. A user signing up with the contact email becomes its society admin.
//
// @Summary      Create society
// @Tags         societies
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string                true  "Client session id"
// @Param        body          body      createSocietyRequest  true  "Society"
// @Success      201           {object}  domain.Society
// @Failure      403           {object}  map[string]string
// @Failure      422           {object}  map[string]string
// @Router       /v1/societies [post]
func (h *SocietyHandler) Create(c echo.Context) error {
	var req createSocietyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	society, err := h.societies.Create(c.Request().Context(), ctxActor(c), ports.CreateSocietyInput{
		Name:         req.Name,
		Description:  req.Description,
		FICName:      req.FICName,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, society)
}

// Delete removes a society.
//
// @Summary      Delete society
// @Tags         societies
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Param        id            path      string  true  "Society ID"
// @Success      204
// @Failure      403           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Router       /v1/societies/{id} [delete]
func (h *SocietyHandler) Delete(c echo.Context) error {
	if err := h.societies.Delete(c.Request().Context(), ctxActor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
