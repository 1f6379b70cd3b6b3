package service

import (
	"fmt"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

// Action is a guarded operation.
type Action string

const (
	ActionListPendingEvents   Action = "events.list_pending"
	ActionVerifyEvent         Action = "events.verify"
	ActionListUsers           Action = "users.list"
	ActionAssignRole          Action = "users.assign_role"
	ActionManageSocieties     Action = "societies.manage"
	ActionViewSocieties       Action = "societies.view"
	ActionCreateEvent         Action = "events.create"
	ActionGenerateDescription Action = "events.describe"
	ActionViewSocietyBoard    Action = "dashboard.society"
	ActionRegister            Action = "registrations.create"
	ActionViewStudentBoard    Action = "dashboard.student"
	ActionBrowseEvents        Action = "events.browse"
)

var allRoles = []domain.Role{domain.RoleStudent, domain.RoleSocietyAdmin, domain.RoleSuperAdmin}

// permissions is the single place that says which role may perform which action.
var permissions = map[Action][]domain.Role{
	ActionListPendingEvents:   {domain.RoleSuperAdmin},
	ActionVerifyEvent:         {domain.RoleSuperAdmin},
	ActionListUsers:           {domain.RoleSuperAdmin},
	ActionAssignRole:          {domain.RoleSuperAdmin},
	ActionManageSocieties:     {domain.RoleSuperAdmin},
	ActionViewSocieties:       allRoles,
	ActionCreateEvent:         {domain.RoleSocietyAdmin},
	ActionGenerateDescription: {domain.RoleSocietyAdmin, domain.RoleSuperAdmin},
	ActionViewSocietyBoard:    {domain.RoleSocietyAdmin},
	ActionRegister:            {domain.RoleStudent, domain.RoleSuperAdmin},
	ActionViewStudentBoard:    {domain.RoleStudent, domain.RoleSuperAdmin},
	ActionBrowseEvents:        allRoles,
}

// Guard decides whether an actor may perform an action.
type Guard interface {
	Authorize(actor domain.Identity, action Action) error
}

// RoleGuard evaluates the static role table. Society-scoped actions also
// require the actor to be affiliated with a society.
type RoleGuard struct{}

func NewRoleGuard() RoleGuard { return RoleGuard{} }

func (RoleGuard) Authorize(actor domain.Identity, action Action) error {
	if actor.IsAnonymous() {
		return fmt.Errorf("%s: %w", action, domain.ErrPermission)
	}
	allowed, ok := permissions[action]
	if !ok {
		return fmt.Errorf("%s: %w", action, domain.ErrPermission)
	}
	role := actor.Role()
	for _, r := range allowed {
		if r != role {
			continue
		}
		if role == domain.RoleSocietyAdmin && societyScoped(action) && actor.SocietyID() == "" {
			return fmt.Errorf("%s: no society affiliation: %w", action, domain.ErrPermission)
		}
		return nil
	}
	return fmt.Errorf("%s as %q: %w", action, role, domain.ErrPermission)
}

func societyScoped(a Action) bool {
	return a == ActionCreateEvent || a == ActionViewSocietyBoard
}
