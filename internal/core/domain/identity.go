package domain

// SessionState is the lifecycle state of a client session.
type SessionState string

const (
	SessionUninitialized SessionState = "uninitialized"
	SessionResolving     SessionState = "resolving"
	SessionAnonymous     SessionState = "anonymous"
	SessionIdentified    SessionState = "identified"
)

// Identity is the resolved actor of a session: either anonymous or a profile.
// Bypass is set when the identity comes from the operator bootstrap marker
// rather than from the auth provider.
type Identity struct {
	User   *User `json:"user,omitempty"`
	Bypass bool  `json:"bypass,omitempty"`
}

// Anonymous is the identity of a session with no signed-in actor.
var Anonymous = Identity{}

// IsAnonymous reports whether no actor is signed in.
func (i Identity) IsAnonymous() bool { return i.User == nil }

// Role returns the actor's role, or the empty role when anonymous.
func (i Identity) Role() Role {
	if i.User == nil {
		return ""
	}
	return i.User.Role
}

// UserID returns the actor's id, or "" when anonymous.
func (i Identity) UserID() string {
	if i.User == nil {
		return ""
	}
	return i.User.ID
}

// SocietyID returns the actor's society affiliation, if any.
func (i Identity) SocietyID() string {
	if i.User == nil {
		return ""
	}
	return i.User.SocietyID
}

// HomeRoute is the surface a client should show for this identity.
func (i Identity) HomeRoute() string {
	if i.User == nil {
		return "/"
	}
	return i.User.Role.HomeRoute()
}

// Equal reports whether both identities describe the same actor with the same
// role and profile.
func (i Identity) Equal(o Identity) bool {
	if i.Bypass != o.Bypass || (i.User == nil) != (o.User == nil) {
		return false
	}
	if i.User == nil {
		return true
	}
	a, b := i.User, o.User
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Email == b.Email &&
		a.Role == b.Role &&
		a.SocietyID == b.SocietyID
}
