// Package genai implements the text generator on top of the Google
// Generative Language API.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

const maxRecommendations = 5

// completer sends a prompt and returns the model's raw JSON reply.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// Client is a ports.TextGenerator.
type Client struct {
	model    completer
	validate *validator.Validate
	retrier  *retry.Retrier
	log      zerolog.Logger
}

type descriptionOutput struct {
	Description string `json:"description" validate:"required"`
}

type recommendationsOutput struct {
	RecommendedEvents []ports.Recommendation `json:"recommendedEvents" validate:"max=5,dive"`
}

// NewClient connects to the Generative Language API with an API key.
func NewClient(ctx context.Context, apiKey, model string, log zerolog.Logger) (*Client, error) {
	svc, err := generativelanguage.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai: new service: %w", err)
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return newClient(&apiModel{svc: svc, name: model}, log), nil
}

func newClient(model completer, log zerolog.Logger) *Client {
	return &Client{
		model:    model,
		validate: validator.New(),
		retrier:  retry.NewRetrier(3, 200*time.Millisecond, 2*time.Second),
		log:      log,
	}
}

func (c *Client) GenerateEventDescription(ctx context.Context, in ports.DescriptionInput) (string, error) {
	prompt, err := render(describeTmpl, in)
	if err != nil {
		return "", fmt.Errorf("genai: render prompt: %w", err)
	}

	var out descriptionOutput
	if err := c.generate(ctx, prompt, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Description), nil
}

// GenerateEventRecommendations drops recommendations that name an event
// outside the candidate list, and duplicates.
func (c *Client) GenerateEventRecommendations(ctx context.Context, in ports.RecommendationInput) ([]ports.Recommendation, error) {
	if len(in.Candidates) == 0 {
		return []ports.Recommendation{}, nil
	}

	prompt, err := render(recommendTmpl, in)
	if err != nil {
		return nil, fmt.Errorf("genai: render prompt: %w", err)
	}

	var out recommendationsOutput
	if err := c.generate(ctx, prompt, &out); err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(in.Candidates))
	for _, cand := range in.Candidates {
		allowed[cand.ID] = struct{}{}
	}
	recs := make([]ports.Recommendation, 0, len(out.RecommendedEvents))
	for _, r := range out.RecommendedEvents {
		if _, ok := allowed[r.EventID]; !ok {
			c.log.Debug().Str("event_id", r.EventID).Msg("dropping recommendation for unknown event")
			continue
		}
		delete(allowed, r.EventID)
		recs = append(recs, r)
	}
	return recs, nil
}

func (c *Client) generate(ctx context.Context, prompt string, out any) error {
	var raw string
	err := c.retrier.RunContext(ctx, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return retry.Stop(err)
		}
		text, err := c.model.complete(ctx, prompt)
		if err != nil {
			c.log.Debug().Err(err).Msg("generation attempt failed")
			return err
		}
		raw = text
		return nil
	})
	if err != nil {
		return fmt.Errorf("genai: generate: %w", err)
	}

	if err := json.Unmarshal([]byte(stripFences(raw)), out); err != nil {
		return fmt.Errorf("genai: decode reply: %w", err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("genai: invalid reply: %w", err)
	}
	return nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

type apiModel struct {
	svc  *generativelanguage.Service
	name string
}

func (m *apiModel) complete(ctx context.Context, prompt string) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	resp, err := m.svc.Models.GenerateContent(m.name, req).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// Disabled is the generator used when no API key is configured.
type Disabled struct{}

func (Disabled) GenerateEventDescription(context.Context, ports.DescriptionInput) (string, error) {
	return "", domain.ErrGeneratorUnavailable
}

func (Disabled) GenerateEventRecommendations(context.Context, ports.RecommendationInput) ([]ports.Recommendation, error) {
	return nil, domain.ErrGeneratorUnavailable
}
