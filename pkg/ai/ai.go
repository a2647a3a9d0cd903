// Package ai hosts the module's single asynchronous boundary. Deterministic
// matching stays pure and synchronous; when it leaves slots unmatched, a
// Provider can be consulted to fill the gaps, and nothing else in the module
// ever suspends.
package ai

import (
	"context"
	"strings"

	"github.com/goliatone/go-untemplate/pkg/extract"
	"github.com/goliatone/go-untemplate/pkg/merge"
	"github.com/goliatone/go-untemplate/pkg/value"
)

// Payload is the context a provider receives: the template, the rendered
// text, and the slot labels deterministic matching could not resolve.
type Payload struct {
	Template  string
	Rendered  string
	Unmatched []string
}

// Completion is a provider's answer. Data carries values for the unmatched
// paths; Confidence is the provider's own estimate in [0, 1] and weights the
// AI-filled share of the final score.
type Completion struct {
	Data       map[string]any
	Confidence float64
}

// Provider performs model-assisted extraction.
type Provider interface {
	Extract(ctx context.Context, payload Payload) (Completion, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, payload Payload) (Completion, error)

func (f ProviderFunc) Extract(ctx context.Context, payload Payload) (Completion, error) {
	return f(ctx, payload)
}

// Result augments an extraction with whether AI assistance was consulted.
type Result struct {
	extract.Result
	AIAssisted bool
}

// ExtractWithAI runs the deterministic matcher first and consults provider
// only when slots remain unmatched. Provider data merges over the
// deterministic captures, path slots the provider filled leave the unmatched
// list, and the confidence of AI-filled slots is discounted by the
// provider's own estimate. Component slots stay unmatched without a codec;
// a provider cannot take their place.
//
// Strict requests error after the fallback, not before it, so a provider
// gets its chance first. Provider errors and component codec errors
// propagate unchanged. A nil provider degrades to plain deterministic
// extraction.
func ExtractWithAI(ctx context.Context, req extract.Request, provider Provider) (*Result, error) {
	detReq := req
	detReq.Strict = false
	det, err := extract.Extract(detReq)
	if err != nil {
		return nil, err
	}

	if len(det.Unmatched) == 0 || provider == nil {
		if req.Strict && len(det.Unmatched) > 0 {
			return nil, &extract.Error{Unmatched: det.Unmatched, Debug: det.Debug}
		}
		return &Result{Result: *det}, nil
	}

	completion, err := provider.Extract(ctx, Payload{
		Template:  req.Template,
		Rendered:  req.Rendered,
		Unmatched: append([]string(nil), det.Unmatched...),
	})
	if err != nil {
		return nil, err
	}

	merged, ok := merge.Apply(det.Data, completion.Data, merge.Options{}).(map[string]any)
	if !ok {
		merged = det.Data
	}

	var remaining []string
	filled := 0
	for _, label := range det.Unmatched {
		if strings.HasPrefix(label, "<") {
			remaining = append(remaining, label)
			continue
		}
		if _, found := value.Get(merged, label); found {
			filled++
			continue
		}
		remaining = append(remaining, label)
	}

	if req.Strict && len(remaining) > 0 {
		return nil, &extract.Error{Unmatched: remaining, Debug: det.Debug}
	}

	total := len(det.Debug.Slots)
	confidence := 1.0
	if total > 0 {
		weight := clamp01(completion.Confidence)
		matched := float64(total - len(det.Unmatched))
		confidence = (matched + float64(filled)*weight) / float64(total)
	}

	return &Result{
		Result: extract.Result{
			Data:       merged,
			Confidence: confidence,
			Unmatched:  remaining,
			Debug:      det.Debug,
		},
		AIAssisted: true,
	}, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
