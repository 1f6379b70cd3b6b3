package ports

import (
	"context"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// EventFilter narrows event listings. Nil Verified means either state.
type EventFilter struct {
	Verified  *bool
	SocietyID string
	IDs       []string
	Limit     int
}

// EventSort selects the listing order.
type EventSort int

const (
	SortCreatedDesc EventSort = iota
	SortEventDateAsc
	SortEventDateDesc
)

// EventRepository persists events and their verification flag.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns matching events joined with their society name.
	List(ctx context.Context, filter EventFilter, sort EventSort) ([]domain.EventWithSociety, error)
	// SetVerified updates the flag; domain.ErrEventNotFound when no row matches.
	SetVerified(ctx context.Context, id string, verified bool) error
}
