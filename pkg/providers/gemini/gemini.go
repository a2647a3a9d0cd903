// Package gemini adapts Google's Gemini models to the ai.Provider interface.
//
// The provider sends the template, the rendered text, and the unresolved slot
// paths to the model and asks for one JSON object carrying values for those
// paths plus the model's own confidence. Responses are requested as
// application/json so no fence stripping is needed.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	genai "google.golang.org/genai"

	"github.com/goliatone/go-untemplate/pkg/ai"
)

// ErrEmptyResponse reports a completion with no candidates or parts.
var ErrEmptyResponse = errors.New("gemini: empty response from model")

// DefaultModel balances latency and quality for slot filling.
const DefaultModel = "gemini-2.5-flash"

const (
	defaultAttempts = 3
	defaultBackoff  = 300 * time.Millisecond
)

// Provider implements ai.Provider on top of the official genai client. The
// zero value is not usable; construct with New.
type Provider struct {
	cli      *genai.Client
	model    string
	attempts int
	backoff  time.Duration
}

var _ ai.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the Gemini model id, e.g. "gemini-2.5-pro".
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithAttempts caps how many times a request is tried before giving up.
func WithAttempts(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithBackoff sets the delay before the first retry; it doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.backoff = d
		}
	}
}

// New builds a Provider against the Gemini API backend. The client reads
// GEMINI_API_KEY from the environment.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	p := &Provider{
		cli:      cli,
		model:    DefaultModel,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Extract asks the model to fill the payload's unmatched paths. Malformed
// answers count as failed attempts and are retried with exponential backoff;
// the last error wins when every attempt fails.
func (p *Provider) Extract(ctx context.Context, payload ai.Payload) (ai.Completion, error) {
	prompt, err := buildPrompt(payload)
	if err != nil {
		return ai.Completion{}, err
	}

	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ai.Completion{}, ctx.Err()
			case <-time.After(p.backoff << (attempt - 1)):
			}
		}
		resp, err := p.cli.Models.GenerateContent(ctx, p.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = fmt.Errorf("gemini: generate content: %w", err)
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
			continue
		}
		completion, err := parseCompletion(resp.Candidates[0].Content.Parts[0].Text)
		if err != nil {
			lastErr = err
			continue
		}
		return completion, nil
	}
	return ai.Completion{}, lastErr
}

const promptHeader = `You reverse a template rendering. Given a template, the text it produced,
and the slot paths that deterministic matching could not resolve, infer a
value for each listed path.

Respond with a single JSON object:
{"data": {"<path>": <value>, ...}, "confidence": <number 0..1>}

Rules:
- Include every listed path; use null when the rendered text gives no clue.
- Values are plain JSON scalars, arrays, or objects; never commentary.
- confidence is your overall estimate for the filled values.`

func buildPrompt(payload ai.Payload) (string, error) {
	input, err := json.MarshalIndent(struct {
		Template  string   `json:"template"`
		Rendered  string   `json:"rendered"`
		Unmatched []string `json:"unmatched"`
	}{payload.Template, payload.Rendered, payload.Unmatched}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("gemini: encode payload: %w", err)
	}
	return promptHeader + "\n\n[INPUT JSON]\n" + string(input), nil
}

func parseCompletion(text string) (ai.Completion, error) {
	var envelope struct {
		Data       map[string]any `json:"data"`
		Confidence *float64       `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return ai.Completion{}, fmt.Errorf("gemini: decode completion: %w", err)
	}
	completion := ai.Completion{Data: envelope.Data, Confidence: 1}
	if envelope.Confidence != nil {
		completion.Confidence = *envelope.Confidence
	}
	return completion, nil
}
