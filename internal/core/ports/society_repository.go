package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// SocietyRepository persists societies.
type SocietyRepository interface {
	Create(ctx context.Context, s *domain.Society) error
	// List returns societies newest first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.Society, error)
	FindByContactEmail(ctx context.Context, email string) (*domain.Society, error)
	Delete(ctx context.Context, id string) error
}
