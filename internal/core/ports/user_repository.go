package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// UserRepository persists profile rows.
type UserRepository interface {
	// Create inserts a profile; domain.ErrUserExists when the id is taken.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all profiles, newest first.
	List(ctx context.Context) ([]domain.User, error)
	// UpdateRole sets the role field; domain.ErrUserNotFound when no row matches.
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}
