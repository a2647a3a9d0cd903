// Package report renders extraction and diff outcomes for people: markdown
// for docs and terminals, JSON for machines, themed HTML for review pages.
// Renderers register by name so front ends can select a format at runtime.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-untemplate/pkg/diff"
	"github.com/goliatone/go-untemplate/pkg/extract"
	"github.com/goliatone/go-untemplate/pkg/render"
	"github.com/goliatone/go-untemplate/pkg/value"
)

// Report is everything a renderer may present. Extract and Diff are both
// optional; a renderer shows the sections it has data for.
type Report struct {
	Template  string
	Extract   *extract.Result
	Diff      *diff.Result
	Generated time.Time
}

// Options carry per-render presentation choices.
type Options struct {
	// Title heads the rendered output; renderers fall back to "Extraction
	// report" when empty.
	Title string
	// Theme configures the HTML renderer: tokens become CSS variables on the
	// page. Other renderers ignore it.
	Theme *theme.RendererConfig
}

// Renderer turns a report into one output format.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, report Report, opts Options) ([]byte, error)
}

// Registry stores renderers by name. Duplicate names are registration
// errors, so format selection stays unambiguous.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// DefaultRegistry returns a registry with the built-in formats registered:
// markdown, json, and html.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(NewMarkdown())
	registry.MustRegister(NewJSON())

	html, err := NewHTML()
	if err != nil {
		panic(err)
	}
	registry.MustRegister(html)
	return registry
}

// Register adds a renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("report: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("report: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("report: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("report: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

const defaultTitle = "Extraction report"

func titleOf(opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	return defaultTitle
}

// row is one flattened data path for tabular presentation. The json tags
// double as the field names template contexts see after normalization.
type row struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// flattenData walks extracted data into sorted path/value rows. Arrays stay
// whole, matching the differ's view of them.
func flattenData(data map[string]any) []row {
	var rows []row
	walkData("", data, &rows)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows
}

func walkData(prefix string, data map[string]any, rows *[]row) {
	for key, v := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.Normalize(v).(map[string]any); ok {
			walkData(path, nested, rows)
			continue
		}
		*rows = append(*rows, row{Path: path, Value: render.Stringify(v)})
	}
}
