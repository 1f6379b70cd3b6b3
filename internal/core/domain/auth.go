package domain

import "time"

// AuthUser is the identity record held by the auth provider, separate from the profile row.
type AuthUser struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AuthSession is an active session issued by the auth provider.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        AuthUser  `json:"user"`
}

// AuthResult is returned by sign-up and sign-in. Session is nil when the
// provider created the identity but withheld a session pending email confirmation.
type AuthResult struct {
	User    *AuthUser
	Session *AuthSession
}

// AuthChangeKind names an auth state change published by the provider.
type AuthChangeKind string

const (
	ChangeUserCreated    AuthChangeKind = "user_created"
	ChangeSignedIn       AuthChangeKind = "signed_in"
	ChangeTokenRefreshed AuthChangeKind = "token_refreshed"
	ChangeSignedOut      AuthChangeKind = "signed_out"
	ChangeUserUpdated    AuthChangeKind = "user_updated"
)

// AuthChange is a notification that a user's auth or profile state changed.
// PreviousToken is set on refresh so live sessions can swap tokens.
type AuthChange struct {
	Kind          AuthChangeKind    `json:"kind"`
	UserID        string            `json:"user_id"`
	Email         string            `json:"email,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	AccessToken   string            `json:"access_token,omitempty"`
	PreviousToken string            `json:"previous_token,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// Credential is the auth provider's stored login record.
type Credential struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              string
	Confirmed         bool
	ConfirmationToken string
	CreatedAt         time.Time
}
