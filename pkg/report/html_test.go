package report

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-untemplate/pkg/extract"
)

func TestHTMLRender(t *testing.T) {
	renderer, err := NewHTML()
	if err != nil {
		t.Fatalf("new html renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleReport(), Options{
		Title: "Review",
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			Tokens:  map[string]string{"brand": "#123456"},
			CSSVars: map[string]string{"--brand": "#123456"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<title>Review</title>",
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		"--brand: #123456;",
		"Generated 2026-03-14T09:30:00Z",
		"<strong>50%</strong>",
		"<code>author.name</code>",
		"Sarah",
		"<code>subtitle</code>",
		"<code>legacy.flag</code>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("page missing %q:\n%s", want, got)
		}
	}
}

func TestHTMLRender_SanitizesCapturedValues(t *testing.T) {
	renderer, err := NewHTML()
	if err != nil {
		t.Fatalf("new html renderer: %v", err)
	}

	report := Report{
		Extract: &extract.Result{
			Data: map[string]any{
				"summary": `<em>fast</em><script>alert("x")</script>`,
			},
			Confidence: 1,
		},
	}

	out, err := renderer.Render(context.Background(), report, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "<em>fast</em>") {
		t.Fatalf("benign markup should survive sanitizing:\n%s", got)
	}
	if strings.Contains(got, "<script>alert") {
		t.Fatalf("script must be stripped:\n%s", got)
	}
}

func TestHTMLRender_WithoutTheme(t *testing.T) {
	renderer, err := NewHTML()
	if err != nil {
		t.Fatalf("new html renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), Report{}, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "<title>Extraction report</title>") {
		t.Fatalf("default title missing:\n%s", got)
	}
	if strings.Contains(got, "data-theme=") {
		t.Fatalf("unthemed page should not declare a theme:\n%s", got)
	}
}
