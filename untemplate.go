// Package untemplate reconstructs structured data from rendered template
// output. Given a template whose slots describe where values were bound and a
// rendered instance that may have drifted since, Extract recovers the values,
// Diff reports how they changed against an original state, and Apply folds
// the changes back in.
//
// The root package re-exports the core types and wires sensible defaults; the
// pkg/ packages expose the full contracts.
package untemplate

import (
	"context"

	"github.com/goliatone/go-untemplate/pkg/ai"
	"github.com/goliatone/go-untemplate/pkg/component"
	"github.com/goliatone/go-untemplate/pkg/diff"
	"github.com/goliatone/go-untemplate/pkg/extract"
	"github.com/goliatone/go-untemplate/pkg/merge"
	"github.com/goliatone/go-untemplate/pkg/render"
	"github.com/goliatone/go-untemplate/pkg/slot"
	"github.com/goliatone/go-untemplate/pkg/validation"
)

// Slot is one parsed placeholder in a template.
type Slot = slot.Slot

// SlotType classifies a slot as expression, conditional, loop, or component.
type SlotType = slot.Type

// Request configures one deterministic extraction pass.
type Request = extract.Request

// Result carries extracted data plus confidence, unmatched slots, and debug
// detail.
type Result = extract.Result

// Error is returned in strict mode when slots stay unmatched.
type Error = extract.Error

// Debug records how the matcher walked the rendered input.
type Debug = extract.Debug

// Scorer lets callers swap the confidence weighting.
type Scorer = extract.Scorer

// Placement selects where component extractor output lands in the data tree.
type Placement = extract.Placement

// Change is one modified value in a structural diff.
type Change = diff.Change

// DiffResult groups the added, modified, and removed paths between two states.
type DiffResult = diff.Result

// MergeOptions tunes Apply.
type MergeOptions = merge.Options

// ArrayMerge selects how arrays combine during Apply.
type ArrayMerge = merge.ArrayMerge

// ValidationReport classifies a template's slots by extractability.
type ValidationReport = validation.Report

// Provider is the AI fallback contract.
type Provider = ai.Provider

// AIResult is an extraction result that may have been completed by a provider.
type AIResult = ai.Result

// Component pairs a render function with its inverse extractor.
type Component = component.Component

// ComponentRegistry resolves component names to their codecs.
type ComponentRegistry = component.Registry

const (
	// PlacementProps nests component extractor output under the component's
	// bound paths. This is the default.
	PlacementProps = extract.PlacementProps
	// PlacementRoot merges component extractor output at the data root.
	PlacementRoot = extract.PlacementRoot
)

const (
	// ArrayReplace swaps original arrays for extracted ones during Apply.
	ArrayReplace = merge.ArrayReplace
	// ArrayAppend adds extracted elements after the original ones.
	ArrayAppend = merge.ArrayAppend
	// ArrayPrepend adds extracted elements before the original ones.
	ArrayPrepend = merge.ArrayPrepend
)

// Option adjusts how the convenience entry points build their requests.
type Option func(*config)

type config struct {
	strict     bool
	placement  extract.Placement
	components *component.Registry
	scorer     extract.Scorer
}

// WithStrict makes extraction fail with *Error when any slot stays unmatched.
func WithStrict() Option {
	return func(cfg *config) { cfg.strict = true }
}

// WithPlacement selects where component extractor output lands.
func WithPlacement(p Placement) Option {
	return func(cfg *config) { cfg.placement = p }
}

// WithComponents swaps the registry used to bind component slots. The default
// is component.DefaultRegistry(); passing nil leaves component slots unbound
// so they surface as unmatched.
func WithComponents(reg *component.Registry) Option {
	return func(cfg *config) { cfg.components = reg }
}

// WithScorer overrides the confidence calculation.
func WithScorer(s Scorer) Option {
	return func(cfg *config) { cfg.scorer = s }
}

func newConfig(opts []Option) *config {
	cfg := &config{components: component.DefaultRegistry()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// Parse tokenizes a template into its slots. Malformed slot syntax degrades
// to literal text; Parse never fails.
func Parse(template string) []Slot {
	return slot.Parse(template)
}

// Validate reports which of a template's slots the deterministic matcher can
// serve and which would need an AI pass.
func Validate(template string) ValidationReport {
	return validation.ValidateTemplate(template)
}

// Extract runs the deterministic matcher over a rendered instance of
// template. Component slots bind to codecs from the configured registry;
// everything else resolves through anchor matching.
func Extract(template, rendered string, opts ...Option) (*Result, error) {
	return extract.Extract(buildRequest(template, rendered, opts))
}

// ExtractWithAI runs Extract and, when slots stay unmatched, asks the
// provider to fill the gaps. The provider call is the only part of the module
// that suspends on ctx.
func ExtractWithAI(ctx context.Context, template, rendered string, provider Provider, opts ...Option) (*AIResult, error) {
	return ai.ExtractWithAI(ctx, buildRequest(template, rendered, opts), provider)
}

// Diff compares an original state against extracted data.
func Diff(original, extracted any) DiffResult {
	return diff.Diff(original, extracted)
}

// Apply merges extracted data onto an original state and returns the combined
// result without mutating either input.
func Apply(original, extracted any, opts MergeOptions) any {
	return merge.Apply(original, extracted, opts)
}

// Render substitutes values into a template's expression and component slots,
// the forward direction Extract inverts.
func Render(template string, values map[string]any, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	return render.Render(template, values, render.Options{Components: cfg.components})
}

func buildRequest(template, rendered string, opts []Option) extract.Request {
	cfg := newConfig(opts)
	return extract.Request{
		Template:   template,
		Rendered:   rendered,
		Strict:     cfg.strict,
		Extractors: componentExtractors(template, cfg.components),
		Placement:  cfg.placement,
		Scorer:     cfg.scorer,
	}
}

// componentExtractors binds registry codecs to the component slots the
// template names. Components missing from the registry stay unbound.
func componentExtractors(template string, reg *component.Registry) map[string]extract.ComponentExtractor {
	if reg == nil {
		return nil
	}
	var out map[string]extract.ComponentExtractor
	for _, s := range slot.Parse(template) {
		if s.Type != slot.TypeComponent {
			continue
		}
		comp, err := reg.Get(s.ComponentName)
		if err != nil {
			continue
		}
		if out == nil {
			out = make(map[string]extract.ComponentExtractor)
		}
		out[s.ComponentName] = comp
	}
	return out
}
