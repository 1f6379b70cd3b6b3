package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

type SocietyService struct {
	repo     ports.SocietyRepository
	guard    Guard
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewSocietyService(repo ports.SocietyRepository, guard Guard, log zerolog.Logger) *SocietyService {
	return &SocietyService{
		repo:     repo,
		guard:    guard,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Create registers a society. The contact email is the address its admin
// will later sign up with.
func (s *SocietyService) Create(ctx context.Context, actor domain.Identity, in ports.CreateSocietyInput) (*domain.Society, error) {
	if err := s.guard.Authorize(actor, ActionManageSocieties); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.FICName = strings.TrimSpace(in.FICName)
	in.ContactEmail = normalizeEmail(in.ContactEmail)
	if in.Name == "" || in.FICName == "" {
		return nil, fmt.Errorf("%w: name and faculty in charge are required", domain.ErrInvalidInput)
	}
	// Only bare addresses: the provisioner matches sign-ups on this exact value.
	if err := s.validate.Var(in.ContactEmail, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid contact email", domain.ErrInvalidInput)
	}

	society := &domain.Society{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		FICName:      in.FICName,
		ContactEmail: in.ContactEmail,
		CreatedBy:    actor.UserID(),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, society); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("society_id", society.ID).
		Str("contact_email", society.ContactEmail).
		Msg("society created, its admin can now sign up with the contact email")
	return society, nil
}

func (s *SocietyService) List(ctx context.Context, actor domain.Identity, limit int) ([]domain.Society, error) {
	if err := s.guard.Authorize(actor, ActionViewSocieties); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit)
}

func (s *SocietyService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := s.guard.Authorize(actor, ActionManageSocieties); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return domain.ErrSocietyNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("society_id", id).Str("actor_id", actor.UserID()).Msg("society deleted")
	return nil
}
