package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// RegistrationRepository persists registrations.
type RegistrationRepository interface {
	// Create returns domain.ErrAlreadyRegistered when (user, event) already exists.
	Create(ctx context.Context, r *domain.Registration) error
	// ListByUser returns the user's registrations newest first joined with event and society.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.RegistrationWithEvent, error)
	CountByEvents(ctx context.Context, eventIDs []string) (int64, error)
}
