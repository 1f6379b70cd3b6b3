package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// VerificationService moderates events and users. Every operation runs the
// role guard before touching the store.
type VerificationService struct {
	events    ports.EventRepository
	users     ports.UserRepository
	regs      ports.RegistrationRepository
	publisher ports.ChangePublisher
	guard     Guard
	log       zerolog.Logger
	now       func() time.Time
}

func NewVerificationService(
	events ports.EventRepository,
	users ports.UserRepository,
	regs ports.RegistrationRepository,
	publisher ports.ChangePublisher,
	guard Guard,
	log zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		events:    events,
		users:     users,
		regs:      regs,
		publisher: publisher,
		guard:     guard,
		log:       log,
		now:       time.Now,
	}
}

// ListPendingEvents returns unverified events with their society name, newest first.
func (s *VerificationService) ListPendingEvents(ctx context.Context, actor domain.Identity) ([]domain.EventWithSociety, error) {
	if err := s.guard.Authorize(actor, ActionListPendingEvents); err != nil {
		return nil, err
	}
	pending := false
	events, err := s.events.List(ctx, ports.EventFilter{Verified: &pending}, ports.SortCreatedDesc)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	return events, nil
}

// SetEventVerified sets the verified flag. Rejection is SetEventVerified(id, false).
func (s *VerificationService) SetEventVerified(ctx context.Context, actor domain.Identity, eventID string, verified bool) error {
	if err := s.guard.Authorize(actor, ActionVerifyEvent); err != nil {
		return err
	}
	if strings.TrimSpace(eventID) == "" {
		return domain.ErrEventNotFound
	}
	if err := s.events.SetVerified(ctx, eventID, verified); err != nil {
		return err
	}

	s.log.Info().
		Str("event_id", eventID).
		Bool("verified", verified).
		Str("actor_id", actor.UserID()).
		Msg("event verification updated")
	return nil
}

func (s *VerificationService) ListUsers(ctx context.Context, actor domain.Identity) ([]domain.User, error) {
	if err := s.guard.Authorize(actor, ActionListUsers); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetUserRole reassigns a role and notifies live sessions of that user.
func (s *VerificationService) SetUserRole(ctx context.Context, actor domain.Identity, userID string, role domain.Role) error {
	if err := s.guard.Authorize(actor, ActionAssignRole); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	change := domain.AuthChange{Kind: domain.ChangeUserUpdated, UserID: userID, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to publish role change")
	}

	s.log.Info().
		Str("user_id", userID).
		Str("role", string(role)).
		Str("actor_id", actor.UserID()).
		Msg("user role updated")
	return nil
}

// RegisterForEvent records (userID, eventID). A repeated registration is
// reported as OutcomeAlreadyRegistered rather than an error.
func (s *VerificationService) RegisterForEvent(ctx context.Context, actor domain.Identity, userID, eventID string) (domain.RegistrationOutcome, error) {
	if err := s.guard.Authorize(actor, ActionRegister); err != nil {
		return "", err
	}
	if userID == "" {
		userID = actor.UserID()
	}
	if actor.Role() != domain.RoleSuperAdmin && userID != actor.UserID() {
		return "", fmt.Errorf("register another user: %w", domain.ErrPermission)
	}
	if strings.TrimSpace(eventID) == "" {
		return "", domain.ErrEventNotFound
	}
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	// Pending and rejected events are invisible to everyone but super admins.
	if !event.Verified && actor.Role() != domain.RoleSuperAdmin {
		return "", domain.ErrEventNotFound
	}

	reg :=&domain.Registration{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.regs.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			s.log.Debug().Str("user_id", userID).Str("event_id", eventID).Msg("already registered")
			return domain.OutcomeAlreadyRegistered, nil
		}
		return "", err
	}

	s.log.Info().Str("user_id", userID).Str("event_id", eventID).Msg("registered for event")
	return domain.OutcomeRegistered, nil
}
