// Package extract reverses template rendering: given a template and the text
// it produced, it reconstructs the data the slots were filled with. Matching
// is deterministic and anchor based; anything the matcher cannot resolve is
// reported as unmatched rather than guessed at.
package extract

import (
	"regexp"
	"sort"

	"github.com/goliatone/go-untemplate/pkg/slot"
	"github.com/goliatone/go-untemplate/pkg/value"
)

// ComponentExtractor decodes the rendered span of a component back into prop
// values keyed by prop name. Implementations are registered per request; the
// package keeps no global registry.
type ComponentExtractor interface {
	Extract(content string) (map[string]any, error)
}

// ExtractorFunc adapts a plain function to the ComponentExtractor interface.
type ExtractorFunc func(content string) (map[string]any, error)

func (f ExtractorFunc) Extract(content string) (map[string]any, error) { return f(content) }

// Placement controls where component prop values land in the extracted data.
type Placement string

const (
	// PlacementProps routes each extracted prop through the component's
	// prop-to-path bindings, so <PropertyTable data={api.fields} /> writes
	// the "data" prop at api.fields. Keys without a binding nest beside the
	// first bound path. This is the default.
	PlacementProps Placement = "props"
	// PlacementRoot merges extracted props at the top level of the data.
	PlacementRoot Placement = "root"
)

// Request carries one extraction. Template and Rendered are required in the
// sense that empty values simply produce an empty, fully-confident result.
type Request struct {
	Template string
	Rendered string
	// Strict promotes unmatched slots from a low confidence score to an
	// *Error return.
	Strict bool
	// Extractors maps component names to their codecs.
	Extractors map[string]ComponentExtractor
	// Placement defaults to PlacementProps.
	Placement Placement
	// Scorer defaults to Score.
	Scorer Scorer
}

// Debug exposes the matcher's working state. It is populated on every
// result, including strict-mode errors, so failed extractions can be
// inspected without rerunning.
type Debug struct {
	// Slots is the parsed slot list in template order.
	Slots []slot.Slot
	// Pattern is a regular-expression rendering of the match plan. It is
	// built for display only and never compiled.
	Pattern string
	// Matched reports whether every slot resolved.
	Matched bool
	// Groups holds the captured text per slot label.
	Groups map[string]string
}

// Result is a completed extraction.
type Result struct {
	Data       map[string]any
	Confidence float64
	Unmatched  []string
	Debug      Debug
}

// Extract runs the deterministic matcher. It returns an error only for a
// strict request with unmatched slots or when a component extractor fails;
// template parsing problems never error, they degrade to literal text.
func Extract(req Request) (*Result, error) {
	segments := slot.Split(req.Template)
	slots := slot.Parse(req.Template)
	outcomes := match(req.Rendered, buildPieces(segments))

	data := map[string]any{}
	groups := map[string]string{}
	var unmatched []string

	for _, o := range outcomes {
		if !o.matched {
			unmatched = append(unmatched, o.slot.Label())
			continue
		}
		if o.slot.Type != slot.TypeComponent {
			value.Set(data, o.slot.Path, o.captured)
			groups[o.slot.Label()] = o.captured
			continue
		}

		extractor, ok := req.Extractors[o.slot.ComponentName]
		if !ok {
			unmatched = append(unmatched, o.slot.Label())
			continue
		}
		props, err := extractor.Extract(o.captured)
		if err != nil {
			return nil, err
		}
		placeProps(data, o.slot, props, req.Placement)
		groups[o.slot.Label()] = o.captured
	}

	debug := Debug{
		Slots:   slots,
		Pattern: buildPattern(segments),
		Matched: len(unmatched) == 0,
		Groups:  groups,
	}

	scorer := req.Scorer
	if scorer == nil {
		scorer = Score
	}

	if req.Strict && len(unmatched) > 0 {
		return nil, &Error{Unmatched: unmatched, Debug: debug}
	}

	return &Result{
		Data:       data,
		Confidence: scorer(len(slots), len(unmatched)),
		Unmatched:  unmatched,
		Debug:      debug,
	}, nil
}

// placeProps writes a component's extracted props into data according to the
// placement mode.
func placeProps(data map[string]any, s slot.Slot, props map[string]any, placement Placement) {
	if placement == PlacementRoot {
		for key, v := range props {
			value.Set(data, key, v)
		}
		return
	}

	namespace := ""
	if len(s.ComponentProps) > 0 {
		names := make([]string, 0, len(s.ComponentProps))
		for name := range s.ComponentProps {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := value.SplitPath(s.ComponentProps[names[0]])
		namespace = value.JoinPath(parts[:len(parts)-1])
	}

	for key, v := range props {
		if path, ok := s.ComponentProps[key]; ok {
			value.Set(data, path, v)
			continue
		}
		if namespace == "" {
			value.Set(data, key, v)
			continue
		}
		value.Set(data, namespace+"."+key, v)
	}
}

// buildPattern renders the match plan as one non-greedy regular expression.
// Strict-mode errors carry it so a failing template can be eyeballed; the
// matcher itself never uses it.
func buildPattern(segments []slot.Segment) string {
	var b []byte
	for _, segment := range segments {
		if segment.Slot != nil {
			b = append(b, "(.*?)"...)
			continue
		}
		b = append(b, regexp.QuoteMeta(segment.Text)...)
	}
	return string(b)
}
