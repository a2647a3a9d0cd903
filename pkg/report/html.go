package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-untemplate/pkg/render"
	"github.com/goliatone/go-untemplate/pkg/report/template"
	"github.com/goliatone/go-untemplate/pkg/report/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// HTMLOption customises the HTML renderer configuration.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	templateFS       fs.FS
	templateRenderer template.TemplateRenderer
}

// WithTemplatesFS supplies an alternate page template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) HTMLOption {
	return func(cfg *htmlConfig) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads page templates from a directory on disk.
func WithTemplatesDir(path string) HTMLOption {
	return func(cfg *htmlConfig) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(renderer template.TemplateRenderer) HTMLOption {
	return func(cfg *htmlConfig) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// HTML renders reports as a themed review page.
type HTML struct {
	templates template.TemplateRenderer
}

var _ Renderer = (*HTML)(nil)

// NewHTML constructs the HTML renderer, defaulting to the embedded page
// template bundle.
func NewHTML(options ...HTMLOption) (*HTML, error) {
	cfg := htmlConfig{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("report: configure html template engine: %w", err)
		}
		renderer = engine
	}

	return &HTML{templates: renderer}, nil
}

// Name identifies the renderer inside the registry.
func (*HTML) Name() string { return "html" }

// ContentType returns the MIME type for generated documents.
func (*HTML) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the review page. Captured values often carry fragments of
// the documents they came from, so they pass through a UGC sanitizer before
// the template marks them safe: benign inline markup survives, scripts do
// not.
func (h *HTML) Render(_ context.Context, report Report, opts Options) ([]byte, error) {
	if h.templates == nil {
		return nil, fmt.Errorf("report: html template engine is nil")
	}

	data := map[string]any{
		"title": titleOf(opts),
		"theme": buildThemeContext(opts.Theme),
	}
	if !report.Generated.IsZero() {
		data["generated"] = report.Generated.UTC().Format(time.RFC3339)
	}

	if report.Extract != nil {
		rows := flattenData(report.Extract.Data)
		for i := range rows {
			rows[i].Value = sanitizeValue(rows[i].Value)
		}
		data["has_extract"] = true
		data["confidence"] = report.Extract.Confidence
		data["rows"] = rows
		data["unmatched"] = report.Extract.Unmatched
	}

	if report.Diff != nil {
		data["has_diff"] = true
		data["has_changes"] = report.Diff.HasChanges
		data["added"] = flattenChangeValues(report.Diff.Added)
		data["modified"] = modifiedRows(report)
		data["removed"] = report.Diff.Removed
	}

	rendered, err := h.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("report: render html page: %w", err)
	}
	return []byte(rendered), nil
}

func modifiedRows(report Report) []map[string]any {
	paths := make([]string, 0, len(report.Diff.Modified))
	for path := range report.Diff.Modified {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	rows := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		change := report.Diff.Modified[path]
		rows = append(rows, map[string]any{
			"path": path,
			"from": sanitizeValue(render.Stringify(change.From)),
			"to":   sanitizeValue(render.Stringify(change.To)),
		})
	}
	return rows
}

type htmlTheme struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
	JSON         string            `json:"json,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) htmlTheme {
	if cfg == nil {
		return htmlTheme{}
	}
	ctx := htmlTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	ctx.JSON = themeJSON(ctx)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, v := range in {
		out[key] = v
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func themeJSON(cfg htmlTheme) string {
	payload := struct {
		Name    string            `json:"name,omitempty"`
		Variant string            `json:"variant,omitempty"`
		Tokens  map[string]string `json:"tokens,omitempty"`
		CSSVars map[string]string `json:"cssVars,omitempty"`
	}{
		Name:    cfg.Name,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

var (
	valuePolicyOnce sync.Once
	valuePolicy     *bluemonday.Policy
)

func sanitizeValue(raw string) string {
	return valueSanitizer().Sanitize(raw)
}

func valueSanitizer() *bluemonday.Policy {
	valuePolicyOnce.Do(func() {
		valuePolicy = bluemonday.UGCPolicy()
	})
	return valuePolicy
}
