// Package slot parses data-binding slots out of template text. A template is
// ordinary text interleaved with brace expressions ({user.name}), ternary
// conditionals ({user.premium ? "Pro" : "Free"}), loop calls
// ({items.map(item => ...)}), and capitalized component tags
// (<PropertyTable data={data.properties} />).
//
// Parsing is total: malformed braces or tags never fail, they stay literal
// text.
package slot

import "fmt"

// Type classifies what a slot binds to.
type Type string

const (
	// TypeExpression is a plain dot-path binding such as {user.name}.
	TypeExpression Type = "expression"
	// TypeConditional covers ternaries and other call forms whose value
	// depends on logic the template alone cannot invert.
	TypeConditional Type = "conditional"
	// TypeLoop is a .map( iteration over an array path.
	TypeLoop Type = "loop"
	// TypeComponent is a capitalized tag handled by a component codec.
	TypeComponent Type = "component"
)

// Slot is a single binding site found in a template.
type Slot struct {
	// Path is the dot path the slot binds to. For conditionals and loops it
	// is the leading path of the expression ("user.premium" for
	// {user.premium ? "a" : "b"}).
	Path string
	// Type classifies the slot.
	Type Type
	// Raw is the exact template text the slot was parsed from, braces and
	// tags included.
	Raw string
	// ComponentName is set for TypeComponent slots.
	ComponentName string
	// ComponentProps maps prop names to the dot paths bound with
	// prop={path}. Static (quoted) props do not participate in extraction
	// and are not recorded.
	ComponentProps map[string]string
}

// Label names the slot in diagnostics and unmatched lists: "<Name />" for
// components, the bound path for everything else.
func (s Slot) Label() string {
	if s.Type == TypeComponent {
		return fmt.Sprintf("<%s />", s.ComponentName)
	}
	return s.Path
}

// Segment is one piece of the alternating literal/slot view produced by
// Split. Exactly one of Text and Slot is meaningful: literal segments carry
// Text and a nil Slot.
type Segment struct {
	Text string
	Slot *Slot
}

// Parse returns every slot in template, in order of appearance. Component
// prop expressions belong to their component and are not reported as
// separate slots.
func Parse(template string) []Slot {
	var slots []Slot
	for _, segment := range Split(template) {
		if segment.Slot != nil {
			slots = append(slots, *segment.Slot)
		}
	}
	return slots
}
