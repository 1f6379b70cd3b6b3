package ports

import (
	"context"
	"time"
)

// DescriptionInput drives event description generation. Keywords is required.
type DescriptionInput struct {
	Keywords string
	Name     string
	Date     string
	Time     string
	Venue    string
}

// CandidateEvent is an event offered to the recommender.
type CandidateEvent struct {
	ID          string
	Title       string
	Description string
	SocietyName string
	Date        time.Time
}

// RecommendationInput drives event recommendations.
type RecommendationInput struct {
	Interests  []string
	PastTitles []string
	Candidates []CandidateEvent
}

// Recommendation is a single recommended event with a short reason.
type Recommendation struct {
	EventID string `json:"eventId" validate:"required"`
	Reason  string `json:"reason"  validate:"required"`
}

// TextGenerator is the AI text-generation collaborator.
type TextGenerator interface {
	GenerateEventDescription(ctx context.Context, in DescriptionInput) (string, error)
	// GenerateEventRecommendations returns at most five recommendations, each
	// referring to one of the candidates.
	GenerateEventRecommendations(ctx context.Context, in RecommendationInput) ([]Recommendation, error)
}
