package ports

import (
	"context"
	"time"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// CreateEventInput is the DTO passed from the transport layer when a society admin submits an event.
type CreateEventInput struct {
	Title       string
	Description string
	Poster      string
	Venue       string
	EventDate   time.Time
	MaxLimit    int
}

// SocietyDashboard summarises a society admin's events.
type SocietyDashboard struct {
	Events             []domain.EventWithSociety
	TotalEvents        int
	TotalRegistrations int64
}

// RecommendedEvent pairs a verified event with the reason it was recommended.
type RecommendedEvent struct {
	Event  domain.EventWithSociety
	Reason string
}

// StudentDashboard is the landing view for a student.
type StudentDashboard struct {
	Registrations   []domain.RegistrationWithEvent
	Societies       []domain.Society
	Recommendations []RecommendedEvent
}

// EventCatalogue covers event submission and the student/society read models.
type EventCatalogue interface {
	CreateEvent(ctx context.Context, actor domain.Identity, in CreateEventInput) (*domain.Event, error)
	ListVerifiedEvents(ctx context.Context, actor domain.Identity, limit int) ([]domain.EventWithSociety, error)
	MyRegistrations(ctx context.Context, actor domain.Identity, limit int) ([]domain.RegistrationWithEvent, error)
	SocietyDashboard(ctx context.Context, actor domain.Identity) (*SocietyDashboard, error)
	StudentDashboard(ctx context.Context, actor domain.Identity, interests []string) (*StudentDashboard, error)
	GenerateDescription(ctx context.Context, actor domain.Identity, in DescriptionInput) (string, error)
}

// VerificationService exposes the moderation mutations and their read-side queries.
type VerificationService interface {
	ListPendingEvents(ctx context.Context, actor domain.Identity) ([]domain.EventWithSociety, error)
	SetEventVerified(ctx context.Context, actor domain.Identity, eventID string, verified bool) error
	ListUsers(ctx context.Context, actor domain.Identity) ([]domain.User, error)
	SetUserRole(ctx context.Context, actor domain.Identity, userID string, role domain.Role) error
	RegisterForEvent(ctx context.Context, actor domain.Identity, userID, eventID string) (domain.RegistrationOutcome, error)
}

// CreateSocietyInput carries the society registration form.
type CreateSocietyInput struct {
	Name         string
	Description  string
	FICName      string
	ContactEmail string
}

// SocietyService manages societies.
type SocietyService interface {
	Create(ctx context.Context, actor domain.Identity, in CreateSocietyInput) (*domain.Society, error)
	List(ctx context.Context, actor domain.Identity, limit int) ([]domain.Society, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
}
