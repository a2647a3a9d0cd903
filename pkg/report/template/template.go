// Package template defines the engine seam report renderers rely on. The
// contract mirrors the github.com/goliatone/go-template engine surface, so
// any engine speaking it can back the HTML report without the report package
// knowing which one.
package template

import "io"

// TemplateRenderer renders named or inline templates against a data context.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
