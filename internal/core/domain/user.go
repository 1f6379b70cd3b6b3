package domain

import "time"

// Role is the authorization level of a profile.
type Role string

const (
	RoleStudent      Role = "student"
	RoleSocietyAdmin Role = "society_admin"
	RoleSuperAdmin   Role = "super_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleSocietyAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// HomeRoute returns the dashboard path a client navigates to after resolving a profile with this role.
func (r Role) HomeRoute() string {
	switch r {
	case RoleSuperAdmin:
		return "/dashboard/super-admin"
	case RoleSocietyAdmin:
		return "/dashboard/society-admin"
	default:
		return "/dashboard/student"
	}
}

// User is the profile row owned by the store. It is created by the provisioner
// after sign-up and mutated only through role reassignment.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Role      Role      `json:"role" bson:"role"`
	SocietyID string    `json:"society_id,omitempty" bson:"society_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
