package domain

import "time"

// Society is a campus organisation that owns events.
type Society struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	FICName      string    `json:"fic_name,omitempty" bson:"fic_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	CreatedBy    string    `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
