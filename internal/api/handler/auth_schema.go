package handler

import (
	"time"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required,max=120"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// identityResponse is the resolved identity of a session and where the client should navigate.
type identityResponse struct {
	SessionID string              `json:"session_id"`
	State     domain.SessionState `json:"state"`
	User      *domain.User        `json:"user,omitempty"`
	Bypass    bool                `json:"bypass,omitempty"`
	Route     string              `json:"route"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type signInResponse struct {
	identityResponse
	*tokenResponse
}

type signUpResponse struct {
	NeedsVerification bool `json:"needs_verification"`
	*identityResponse
	*tokenResponse
}

type messageResponse struct {
	Message string `json:"message"`
	Route   string `json:"route,omitempty"`
}

func newIdentityResponse(s *domain.Session, id domain.Identity) identityResponse {
	return identityResponse{
		SessionID: s.ID,
		State:     s.State(),
		User:      id.User,
		Bypass:    id.Bypass,
		Route:     id.HomeRoute(),
	}
}

func newTokenResponse(as *domain.AuthSession) *tokenResponse {
	if as == nil {
		return nil
	}
	return &tokenResponse{AccessToken: as.AccessToken, ExpiresAt: as.ExpiresAt}
}
