package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

const (
	dashboardRegistrations = 3
	dashboardSocieties     = 4
	dashboardEvents        = 10
)

// EventCatalogue serves event submission and the dashboard read models.
type EventCatalogue struct {
	events    ports.EventRepository
	regs      ports.RegistrationRepository
	societies ports.SocietyRepository
	generator ports.TextGenerator
	guard     Guard
	log       zerolog.Logger
	now       func() time.Time
}

func NewEventCatalogue(
	events ports.EventRepository,
	regs ports.RegistrationRepository,
	societies ports.SocietyRepository,
	generator ports.TextGenerator,
	guard Guard,
	log zerolog.Logger,
) *EventCatalogue {
	return &EventCatalogue{
		events:    events,
		regs:      regs,
		societies: societies,
		generator: generator,
		guard:     guard,
		log:       log,
		now:       time.Now,
	}
}

// CreateEvent submits an event for the actor's society. New events start unverified.
func (c *EventCatalogue) CreateEvent(ctx context.Context, actor domain.Identity, in ports.CreateEventInput) (*domain.Event, error) {
	if err := c.guard.Authorize(actor, ActionCreateEvent); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Venue = strings.TrimSpace(in.Venue)
	switch {
	case in.Title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case in.Venue == "":
		return nil, fmt.Errorf("%w: venue is required", domain.ErrInvalidInput)
	case in.EventDate.IsZero():
		return nil, fmt.Errorf("%w: event date is required", domain.ErrInvalidInput)
	case in.MaxLimit <= 0:
		return nil, fmt.Errorf("%w: max limit must be positive", domain.ErrInvalidInput)
	}

	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Poster:      strings.TrimSpace(in.Poster),
		Venue:       in.Venue,
		EventDate:   in.EventDate.UTC(),
		MaxLimit:    in.MaxLimit,
		SocietyID:   actor.SocietyID(),
		CreatedBy:   actor.UserID(),
		Verified:    false,
		CreatedAt:   c.now().UTC(),
	}
	if err := c.events.Create(ctx, event); err != nil {
		return nil, err
	}

	c.log.Info().Str("event_id", event.ID).Str("society_id", event.SocietyID).Msg("event submitted for verification")
	return event, nil
}

// ListVerifiedEvents returns verified events soonest first.
func (c *EventCatalogue) ListVerifiedEvents(ctx context.Context, actor domain.Identity, limit int) ([]domain.EventWithSociety, error) {
	if err := c.guard.Authorize(actor, ActionBrowseEvents); err != nil {
		return nil, err
	}
	verified := true
	return c.events.List(ctx, ports.EventFilter{Verified: &verified, Limit: limit}, ports.SortEventDateAsc)
}

func (c *EventCatalogue) MyRegistrations(ctx context.Context, actor domain.Identity, limit int) ([]domain.RegistrationWithEvent, error) {
	if err := c.guard.Authorize(actor, ActionViewStudentBoard); err != nil {
		return nil, err
	}
	return c.regs.ListByUser(ctx, actor.UserID(), limit)
}

// SocietyDashboard lists the actor's society events, latest date first, with
// the registration total across them.
func (c *EventCatalogue) SocietyDashboard(ctx context.Context, actor domain.Identity) (*ports.SocietyDashboard, error) {
	if err := c.guard.Authorize(actor, ActionViewSocietyBoard); err != nil {
		return nil, err
	}

	events, err := c.events.List(ctx, ports.EventFilter{SocietyID: actor.SocietyID()}, ports.SortEventDateDesc)
	if err != nil {
		return nil, fmt.Errorf("society dashboard: %w", err)
	}

	out := &ports.SocietyDashboard{Events: events, TotalEvents: len(events)}
	if len(events) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	total, err := c.regs.CountByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("society dashboard: count registrations: %w", err)
	}
	out.TotalRegistrations = total
	return out, nil
}

// StudentDashboard loads recent registrations, societies and verified events
// concurrently, then asks the generator for recommendations among events the
// student has not registered for. Recommendation failures yield an empty list.
func (c *EventCatalogue) StudentDashboard(ctx context.Context, actor domain.Identity, interests []string) (*ports.StudentDashboard, error) {
	if err := c.guard.Authorize(actor, ActionViewStudentBoard); err != nil {
		return nil, err
	}

	var (
		regs      []domain.RegistrationWithEvent
		societies []domain.Society
		events    []domain.EventWithSociety
	)
	verified := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		regs, err = c.regs.ListByUser(gctx, actor.UserID(), dashboardRegistrations)
		return err
	})
	g.Go(func() error {
		var err error
		societies, err = c.societies.List(gctx, dashboardSocieties)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = c.events.List(gctx, ports.EventFilter{Verified: &verified, Limit: dashboardEvents}, ports.SortEventDateAsc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("student dashboard: %w", err)
	}

	return &ports.StudentDashboard{
		Registrations:   regs,
		Societies:       societies,
		Recommendations: c.recommend(ctx, actor, interests, regs, events),
	}, nil
}

func (c *EventCatalogue) recommend(
	ctx context.Context,
	actor domain.Identity,
	interests []string,
	regs []domain.RegistrationWithEvent,
	events []domain.EventWithSociety,
) []ports.RecommendedEvent {
	out := []ports.RecommendedEvent{}
	if c.generator == nil {
		return out
	}

	registered := make(map[string]struct{}, len(regs))
	past := make([]string, 0, len(regs))
	for _, r := range regs {
		registered[r.EventID] = struct{}{}
		past = append(past, r.Event.Title)
	}

	byID := make(map[string]domain.EventWithSociety, len(events))
	candidates := make([]ports.CandidateEvent, 0, len(events))
	for _, e := range events {
		if _, ok := registered[e.ID]; ok {
			continue
		}
		byID[e.ID] = e
		candidates = append(candidates, ports.CandidateEvent{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			SocietyName: e.SocietyName,
			Date:        e.EventDate,
		})
	}
	if len(candidates) == 0 {
		return out
	}

	recs, err := c.generator.GenerateEventRecommendations(ctx, ports.RecommendationInput{
		Interests:  interests,
		PastTitles: past,
		Candidates: candidates,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", actor.UserID()).Msg("recommendations unavailable")
		return out
	}

	for _, r := range recs {
		e, ok := byID[r.EventID]
		if !ok {
			continue
		}
		delete(byID, r.EventID)
		out = append(out, ports.RecommendedEvent{Event: e, Reason: r.Reason})
	}
	return out
}

// GenerateDescription drafts an event description from keywords and optional details.
func (c *EventCatalogue) GenerateDescription(ctx context.Context, actor domain.Identity, in ports.DescriptionInput) (string, error) {
	if err := c.guard.Authorize(actor, ActionGenerateDescription); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Keywords) == "" {
		return "", fmt.Errorf("%w: keywords are required", domain.ErrInvalidInput)
	}
	if c.generator == nil {
		return "", domain.ErrGeneratorUnavailable
	}
	return c.generator.GenerateEventDescription(ctx, in)
}
