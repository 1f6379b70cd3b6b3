package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// Provisioner creates the profile row for a newly signed-up identity.
type Provisioner struct {
	users     ports.UserRepository
	societies ports.SocietyRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewProvisioner(users ports.UserRepository, societies ports.SocietyRepository, log zerolog.Logger) *Provisioner {
	return &Provisioner{users: users, societies: societies, log: log, now: time.Now}
}

// HandleAuthChange provisions on user_created and ignores every other kind.
// A profile that already exists is left untouched.
func (p *Provisioner) HandleAuthChange(ctx context.Context, change domain.AuthChange) error {
	if change.Kind != domain.ChangeUserCreated || change.UserID == "" {
		return nil
	}

	user := &domain.User{
		ID:        change.UserID,
		Name:      strings.TrimSpace(change.Metadata["name"]),
		Email:     normalizeEmail(change.Email),
		Role:      domain.RoleStudent,
		CreatedAt: p.now().UTC(),
	}
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(user.Email, "@")
	}

	society, err := p.societies.FindByContactEmail(ctx, user.Email)
	switch {
	case err == nil && society != nil:
		user.Role = domain.RoleSocietyAdmin
		user.SocietyID = society.ID
	case err != nil && !errors.Is(err, domain.ErrSocietyNotFound):
		return err
	}

	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			p.log.Debug().Str("user_id", user.ID).Msg("profile already provisioned")
			return nil
		}
		return err
	}

	p.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("profile provisioned")
	return nil
}
