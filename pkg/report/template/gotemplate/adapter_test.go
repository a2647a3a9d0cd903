package gotemplate_test

import (
	"embed"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-untemplate/pkg/report/template/gotemplate"
	"github.com/goliatone/go-untemplate/pkg/testsupport"
)

//go:embed testdata/templates
var templateFiles embed.FS

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	sub, err := fs.Sub(templateFiles, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(sub)}, opts...)...)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	return engine
}

func TestRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	data := map[string]any{
		"title":      "Review",
		"confidence": 0.5,
		"rows": []map[string]any{
			{"path": "title", "value": "Go"},
			{"path": "author", "value": "Sarah"},
		},
	}

	out, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("summary", data, w)
	})

	want := "# Review\nConfidence: 50%\n- title: Go\n- author: Sarah\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("rendered output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(out, written); diff != "" {
		t.Fatalf("writer output mismatch (-returned +written):\n%s", diff)
	}
}

func TestRenderTemplate_UnknownTemplate(t *testing.T) {
	engine := newEngine(t)

	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatal("expected error for unknown template")
	} else if !strings.Contains(err.Error(), "nope.tmpl") {
		t.Fatalf("error should name the resolved path, got %v", err)
	}
}

func TestRenderString_NormalizesStructs(t *testing.T) {
	engine := newEngine(t)

	payload := struct {
		Name string `json:"name"`
	}{Name: "go-untemplate"}

	out, err := engine.RenderString("project: {{ name }}", payload)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "project: go-untemplate" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRender_RoutesInlineContent(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.Render("{{ greeting }}, world", map[string]any{"greeting": "Hello"})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if out != "Hello, world" {
		t.Fatalf("unexpected inline output %q", out)
	}

	out, err = engine.Render("greeting", map[string]any{"greeting": "Hi", "name": "Ada"})
	if err != nil {
		t.Fatalf("render named: %v", err)
	}
	if out != "Hi, Ada!\n" {
		t.Fatalf("unexpected named output %q", out)
	}
}

func TestGlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"greeting": "Hello"}))

	out, err := engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if out != "Hello, Ada!\n" {
		t.Fatalf("unexpected output %q", out)
	}

	if err := engine.GlobalContext(map[string]any{"greeting": "Howdy"}); err != nil {
		t.Fatalf("update globals: %v", err)
	}
	out, err = engine.RenderTemplate("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if out != "Howdy, Ada!\n" {
		t.Fatalf("globals should update between renders, got %q", out)
	}
}

func TestRegisterFilter(t *testing.T) {
	engine := newEngine(t)

	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}

	out, err := engine.RenderString("{{ name|shout }}", map[string]any{"name": "go"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "GO" {
		t.Fatalf("unexpected output %q", out)
	}

	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return input, nil
	}); err == nil {
		t.Fatal("expected error when re-registering a filter")
	}
}

func TestPercentFilter(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0.5, want: "50%"},
		{ratio: 0.25, want: "25%"},
		{ratio: 1, want: "100%"},
		{ratio: 0, want: "0%"},
	}

	for _, tc := range tests {
		out, err := engine.RenderString("{{ ratio|percent }}", map[string]any{"ratio": tc.ratio})
		if err != nil {
			t.Fatalf("render string: %v", err)
		}
		if out != tc.want {
			t.Fatalf("ratio %v: want %q, got %q", tc.ratio, tc.want, out)
		}
	}
}
