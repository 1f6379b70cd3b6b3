package handler

import (
	"time"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

type createEventRequest struct {
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Poster      string    `json:"poster"      validate:"omitempty,url"`
	Venue       string    `json:"venue"       validate:"required,max=200"`
	EventDate   time.Time `json:"event_date"  validate:"required"`
	MaxLimit    int       `json:"max_limit"   validate:"required,gt=0"`
}

type registerRequest struct {
	UserID string `json:"user_id"`
}

type registrationResponse struct {
	EventID string                     `json:"event_id"`
	Outcome domain.RegistrationOutcome `json:"outcome"`
	Message string                     `json:"message"`
}

type describeRequest struct {
	Keywords string `json:"keywords" validate:"required,max=500"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
}

type describeResponse struct {
	Description string `json:"description"`
}

type recommendationResponse struct {
	Event  domain.EventWithSociety `json:"event"`
	Reason string                  `json:"reason"`
}

type studentDashboardResponse struct {
	Registrations   []domain.RegistrationWithEvent `json:"registrations"`
	Societies       []domain.Society               `json:"societies"`
	Recommendations []recommendationResponse       `json:"recommendations"`
}

type societyDashboardResponse struct {
	Events             []domain.EventWithSociety `json:"events"`
	TotalEvents        int                       `json:"total_events"`
	TotalRegistrations int64                     `json:"total_registrations"`
}

func toStudentDashboardResponse(d *ports.StudentDashboard) studentDashboardResponse {
	recs := make([]recommendationResponse, 0, len(d.Recommendations))
	for _, r := range d.Recommendations {
		recs = append(recs, recommendationResponse{Event: r.Event, Reason: r.Reason})
	}
	return studentDashboardResponse{
		Registrations:   nonNil(d.Registrations),
		Societies:       nonNil(d.Societies),
		Recommendations: recs,
	}
}

// nonNil renders empty collections as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
