package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventsphere/campus-events/internal/api/metrics"
	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// EventHandler serves event browsing, submission, registration and the dashboards.
type EventHandler struct {
	catalogue    ports.EventCatalogue
	verification ports.VerificationService
}

func NewEventHandler(catalogue ports.EventCatalogue, verification ports.VerificationService) *EventHandler {
	return &EventHandler{catalogue: catalogue, verification: verification}
}

// List returns verified events by event date.
//
// @Summary      List verified events
// @Tags         events
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Client session id"
// @Param        limit         query     int     false  "Maximum number of events"
// @Success      200           {array}   domain.EventWithSociety
// @Failure      401           {object}  map[string]string
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	events, err := h.catalogue.ListVerifiedEvents(c.Request().Context(), ctxActor(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(events))
}

// Create submits an event for verification under the actor's society.
//
// @Summary      Create event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string              true  "Client session id"
// @Param        body          body      createEventRequest  true  "Event"
// @Success      201           {object}  domain.Event
// @Failure      403           {object}  map[string]string
// @Failure      422           {object}  map[string]string
// @Router       /v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.catalogue.CreateEvent(c.Request().Context(), ctxActor(c), ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Poster:      req.Poster,
		Venue:       req.Venue,
		EventDate:   req.EventDate,
		MaxLimit:    req.MaxLimit,
	})
	if err != nil {
		return err
	}

	metrics.EventsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, event)
}

// Register registers a user for an event. Registering twice is reported, not rejected.
//
// @Summary      Register for event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string           true   "Client session id"
// @Param        id            path      string           true   "Event ID"
// @Param        body          body      registerRequest  false  "Target user (super admin only)"
// @Success      200           {object}  registrationResponse  "already registered"
// @Success      201           {object}  registrationResponse
// @Failure      403           {object}  map[string]string
// @Failure      404           {object}  map[string]string
// @Router       /v1/events/{id}/registrations [post]
func (h *EventHandler) Register(c echo.Context) error {
	var req registerRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	eventID := c.Param("id")
	outcome, err := h.verification.RegisterForEvent(c.Request().Context(), ctxActor(c), req.UserID, eventID)
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(outcome)).Inc()

	if outcome == domain.OutcomeAlreadyRegistered {
		return c.JSON(http.StatusOK, registrationResponse{EventID: eventID, Outcome: outcome, Message: "already registered for this event"})
	}
	return c.JSON(http.StatusCreated, registrationResponse{EventID: eventID, Outcome: outcome, Message: "registered successfully"})
}

// Describe drafts an event description from keywords.
//
// @Summary      Generate event description
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string           true  "Client session id"
// @Param        body          body      describeRequest  true  "Event details"
// @Success      200           {object}  describeResponse
// @Failure      403           {object}  map[string]string
// @Failure      503           {object}  map[string]string
// @Router       /v1/events/describe [post]
func (h *EventHandler) Describe(c echo.Context) error {
	var req describeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	text, err := h.catalogue.GenerateDescription(c.Request().Context(), ctxActor(c), ports.DescriptionInput{
		Keywords: req.Keywords,
		Name:     req.Name,
		Date:     req.Date,
		Time:     req.Time,
		Venue:    req.Venue,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, describeResponse{Description: text})
}

// MyRegistrations lists the actor's registrations newest first.
//
// @Summary      My registrations
// @Tags         dashboard
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Client session id"
// @Param        limit         query     int     false  "Maximum number of registrations"
// @Success      200           {array}   domain.RegistrationWithEvent
// @Failure      403           {object}  map[string]string
// @Router       /v1/me/registrations [get]
func (h *EventHandler) MyRegistrations(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	regs, err := h.catalogue.MyRegistrations(c.Request().Context(), ctxActor(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(regs))
}

// StudentDashboard returns recent registrations, societies and recommendations.
//
// @Summary      Student dashboard
// @Tags         dashboard
// @Produce      json
// @Param        X-Session-ID  header    string  true   "Client session id"
// @Param        interests     query     string  false  "Comma separated interests"
// @Success      200           {object}  studentDashboardResponse
// @Failure      403           {object}  map[string]string
// @Router       /v1/dashboard/student [get]
func (h *EventHandler) StudentDashboard(c echo.Context) error {
	dash, err := h.catalogue.StudentDashboard(c.Request().Context(), ctxActor(c), splitInterests(c.QueryParam("interests")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStudentDashboardResponse(dash))
}

// SocietyDashboard returns the actor's society events and registration total.
//
// @Summary      Society dashboard
// @Tags         dashboard
// @Produce      json
// @Param        X-Session-ID  header    string  true  "Client session id"
// @Success      200           {object}  societyDashboardResponse
// @Failure      403           {object}  map[string]string
// @Router       /v1/dashboard/society [get]
func (h *EventHandler) SocietyDashboard(c echo.Context) error {
	dash, err := h.catalogue.SocietyDashboard(c.Request().Context(), ctxActor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, societyDashboardResponse{
		Events:             nonNil(dash.Events),
		TotalEvents:        dash.TotalEvents,
		TotalRegistrations: dash.TotalRegistrations,
	})
}

func splitInterests(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
