package domain

import "time"

// Registration links a user to an event. At most one exists per (user, event).
type Registration struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	EventID   string    `json:"event_id" bson:"event_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// RegistrationWithEvent is a registration joined with its event and the event's society name.
type RegistrationWithEvent struct {
	Registration `bson:",inline"`
	Event        EventWithSociety `json:"event" bson:"event"`
}

// RegistrationOutcome distinguishes a new registration from a repeated one.
// A repeated registration is informational, not a failure.
type RegistrationOutcome string

const (
	OutcomeRegistered        RegistrationOutcome = "registered"
	OutcomeAlreadyRegistered RegistrationOutcome = "already_registered"
)
