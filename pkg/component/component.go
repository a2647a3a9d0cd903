// Package component pairs the two halves of a template component: the
// renderer that turns prop values into text and the extractor that recovers
// them from rendered output. A codec built with RoundTrip satisfies the
// matcher's ComponentExtractor contract, so registering one is all it takes
// to make a <Name /> tag extractable.
package component

import "fmt"

// RenderFunc produces the rendered body of a component from its props,
// keyed by prop name.
type RenderFunc func(props map[string]any) (string, error)

// ExtractFunc recovers prop values from a rendered component body. The
// returned map uses the same prop names RenderFunc consumes, which is what
// keeps the two halves composable.
type ExtractFunc func(content string) (map[string]any, error)

// Spec declares a component codec before validation.
type Spec struct {
	Name    string
	Render  RenderFunc
	Extract ExtractFunc
}

// Component is a validated codec. The zero value is unusable; build one with
// RoundTrip.
type Component struct {
	name    string
	render  RenderFunc
	extract ExtractFunc
}

// RoundTrip validates spec and returns the codec. Both directions are
// mandatory: a render-only or extract-only component cannot uphold the
// extract-after-render identity the matcher relies on.
func RoundTrip(spec Spec) (*Component, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("component: name is required")
	}
	if spec.Render == nil {
		return nil, fmt.Errorf("component: %s: render func is required", spec.Name)
	}
	if spec.Extract == nil {
		return nil, fmt.Errorf("component: %s: extract func is required", spec.Name)
	}
	return &Component{name: spec.Name, render: spec.Render, extract: spec.Extract}, nil
}

// mustRoundTrip backs the built-in constructors, whose specs are complete by
// construction.
func mustRoundTrip(spec Spec) *Component {
	c, err := RoundTrip(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the tag name the component answers to.
func (c *Component) Name() string { return c.name }

// Render produces the component body for props.
func (c *Component) Render(props map[string]any) (string, error) {
	return c.render(props)
}

// Extract recovers props from a rendered body.
func (c *Component) Extract(content string) (map[string]any, error) {
	return c.extract(content)
}
