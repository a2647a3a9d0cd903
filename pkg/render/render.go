// Package render fills a template's slots from structured values, the forward
// direction of the extract package. Expressions resolve through dotted paths
// and components through a registry; conditionals and loops carry logic a
// value lookup cannot reproduce, so rendering them is a typed error the caller
// can route to a real template engine.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-untemplate/pkg/component"
	"github.com/goliatone/go-untemplate/pkg/slot"
	"github.com/goliatone/go-untemplate/pkg/value"
)

// MissingMode selects what Render emits for a path absent from the values.
type MissingMode string

const (
	// MissingEmpty renders absent paths as "". The zero value.
	MissingEmpty MissingMode = ""
	// MissingKeep leaves the original slot text in place, which keeps the
	// output re-extractable.
	MissingKeep MissingMode = "keep"
	// MissingError fails the render with a MissingValueError.
	MissingError MissingMode = "error"
)

// Options configure a render pass.
type Options struct {
	// Components resolves component tags. Nil falls back to the built-in
	// registry.
	Components *component.Registry
	// Missing selects the treatment of unresolved paths.
	Missing MissingMode
}

// UnsupportedSlotError reports a slot whose semantics need a template engine,
// not a value lookup.
type UnsupportedSlotError struct {
	Slot slot.Slot
}

func (e *UnsupportedSlotError) Error() string {
	return fmt.Sprintf("render: %s slot %q requires a template engine", e.Slot.Type, e.Slot.Raw)
}

// MissingValueError reports an unresolved path under MissingError.
type MissingValueError struct {
	Path string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("render: no value for %q", e.Path)
}

// UnknownComponentError reports a component tag with no registered codec.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("render: unknown component %q", e.Name)
}

// Render substitutes values into template. Literal text passes through
// untouched, so a template without slots renders as itself.
func Render(template string, values map[string]any, opts Options) (string, error) {
	registry := opts.Components
	if registry == nil {
		registry = component.DefaultRegistry()
	}

	var out strings.Builder
	for _, segment := range slot.Split(template) {
		if segment.Slot == nil {
			out.WriteString(segment.Text)
			continue
		}

		s := segment.Slot
		switch s.Type {
		case slot.TypeExpression:
			text, err := renderExpression(s, values, opts.Missing)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		case slot.TypeComponent:
			text, err := renderComponent(s, values, registry)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		default:
			return "", &UnsupportedSlotError{Slot: *s}
		}
	}
	return out.String(), nil
}

func renderExpression(s *slot.Slot, values map[string]any, missing MissingMode) (string, error) {
	v, ok := value.Get(values, s.Path)
	if !ok {
		switch missing {
		case MissingKeep:
			return s.Raw, nil
		case MissingError:
			return "", &MissingValueError{Path: s.Path}
		default:
			return "", nil
		}
	}
	return Stringify(v), nil
}

func renderComponent(s *slot.Slot, values map[string]any, registry *component.Registry) (string, error) {
	comp, err := registry.Get(s.ComponentName)
	if err != nil {
		return "", &UnknownComponentError{Name: s.ComponentName}
	}

	props := make(map[string]any, len(s.ComponentProps))
	for prop, path := range s.ComponentProps {
		if v, ok := value.Get(values, path); ok {
			props[prop] = v
		}
	}

	body, err := comp.Render(props)
	if err != nil {
		return "", fmt.Errorf("render: component %s: %w", s.ComponentName, err)
	}
	return body, nil
}

// Stringify converts a canonical value to the text an expression slot emits.
// Scalars format plainly; arrays and objects fall back to compact JSON so the
// output stays parseable.
func Stringify(v any) string {
	switch tv := value.Normalize(v).(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case string:
		return tv
	default:
		encoded, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprint(tv)
		}
		return string(encoded)
	}
}
