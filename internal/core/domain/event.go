package domain

import "time"

// Event is a society event. It is created unverified and only becomes visible
// to students once a super admin sets Verified.
type Event struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Poster      string    `json:"poster,omitempty" bson:"poster,omitempty"`
	Venue       string    `json:"venue" bson:"venue"`
	EventDate   time.Time `json:"event_date" bson:"event_date"`
	MaxLimit    int       `json:"max_limit" bson:"max_limit"`
	SocietyID   string    `json:"society_id" bson:"society_id"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	Verified    bool      `json:"verified" bson:"verified"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// EventWithSociety is an event joined with the name of its owning society.
type EventWithSociety struct {
	Event       `bson:",inline"`
	SocietyName string `json:"society_name" bson:"society_name"`
}
