package slot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Expressions(t *testing.T) {
	cases := []struct {
		name     string
		template string
		want     []Slot
	}{
		{
			name:     "single expression",
			template: "Hello {user.name}!",
			want: []Slot{
				{Path: "user.name", Type: TypeExpression, Raw: "{user.name}"},
			},
		},
		{
			name:     "multiple expressions keep order",
			template: "# {title}\n\n{description}\n",
			want: []Slot{
				{Path: "title", Type: TypeExpression, Raw: "{title}"},
				{Path: "description", Type: TypeExpression, Raw: "{description}"},
			},
		},
		{
			name:     "whitespace inside braces",
			template: "{ user.email }",
			want: []Slot{
				{Path: "user.email", Type: TypeExpression, Raw: "{ user.email }"},
			},
		},
		{
			name:     "ternary conditional",
			template: "Plan: {user.premium ? \"Pro\" : \"Free\"}",
			want: []Slot{
				{Path: "user.premium", Type: TypeConditional, Raw: "{user.premium ? \"Pro\" : \"Free\"}"},
			},
		},
		{
			name:     "call form counts as conditional",
			template: "Updated {formatDate(meta.updated)}",
			want: []Slot{
				{Path: "formatDate", Type: TypeConditional, Raw: "{formatDate(meta.updated)}"},
			},
		},
		{
			name:     "map loop",
			template: "{items.map(item => `- ${item.name}`)}",
			want: []Slot{
				{Path: "items", Type: TypeLoop, Raw: "{items.map(item => `- ${item.name}`)}"},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tc.template)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_MalformedStaysLiteral(t *testing.T) {
	cases := []struct {
		name     string
		template string
	}{
		{name: "unclosed brace", template: "Hello {user.name"},
		{name: "empty braces", template: "a {} b"},
		{name: "not a path", template: "{not a path!}"},
		{name: "css block", template: "body { color: red }"},
		{name: "lowercase html tag", template: "<div class=\"box\">text</div>"},
		{name: "block component without close", template: "<Card>open forever"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Parse(tc.template); len(got) != 0 {
				t.Fatalf("expected no slots, got %+v", got)
			}
			segments := Split(tc.template)
			if len(segments) != 1 || segments[0].Slot != nil || segments[0].Text != tc.template {
				t.Fatalf("expected single literal segment, got %+v", segments)
			}
		})
	}
}

func TestParse_UnclosedTagReleasesInnerBraces(t *testing.T) {
	// When the tag itself cannot be parsed, its text stays literal but a
	// well-formed brace inside it is still an ordinary expression.
	got := Parse("<PropertyTable data={rows}")

	want := []Slot{
		{Path: "rows", Type: TypeExpression, Raw: "{rows}"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Components(t *testing.T) {
	cases := []struct {
		name     string
		template string
		want     []Slot
	}{
		{
			name:     "self closing with bound prop",
			template: "<PropertyTable data={data.properties} />",
			want: []Slot{
				{
					Type:           TypeComponent,
					ComponentName:  "PropertyTable",
					ComponentProps: map[string]string{"data": "data.properties"},
					Raw:            "<PropertyTable data={data.properties} />",
				},
			},
		},
		{
			name:     "static props are not bindings",
			template: "<BulletList items={features} title=\"Highlights\" compact />",
			want: []Slot{
				{
					Type:           TypeComponent,
					ComponentName:  "BulletList",
					ComponentProps: map[string]string{"items": "features"},
					Raw:            "<BulletList items={features} title=\"Highlights\" compact />",
				},
			},
		},
		{
			name:     "block form",
			template: "<Callout tone={alert.tone}>Watch out</Callout>",
			want: []Slot{
				{
					Type:           TypeComponent,
					ComponentName:  "Callout",
					ComponentProps: map[string]string{"tone": "alert.tone"},
					Raw:            "<Callout tone={alert.tone}>Watch out</Callout>",
				},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tc.template)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ComponentOwnsItsPropExpressions(t *testing.T) {
	got := Parse("# {title}\n<PropertyTable data={data.properties} />\n{footer}")

	want := []Slot{
		{Path: "title", Type: TypeExpression, Raw: "{title}"},
		{
			Type:           TypeComponent,
			ComponentName:  "PropertyTable",
			ComponentProps: map[string]string{"data": "data.properties"},
			Raw:            "<PropertyTable data={data.properties} />",
		},
		{Path: "footer", Type: TypeExpression, Raw: "{footer}"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_AlternatesLiteralsAndSlots(t *testing.T) {
	segments := Split("Hello {user.name}, welcome to {site}!")

	var texts []string
	var paths []string
	for _, segment := range segments {
		if segment.Slot != nil {
			paths = append(paths, segment.Slot.Path)
			continue
		}
		texts = append(texts, segment.Text)
	}

	if diff := cmp.Diff([]string{"Hello ", ", welcome to ", "!"}, texts); diff != "" {
		t.Fatalf("literal mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"user.name", "site"}, paths); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_EmptyTemplate(t *testing.T) {
	if got := Split(""); len(got) != 0 {
		t.Fatalf("expected no segments, got %+v", got)
	}
}

func TestLabel(t *testing.T) {
	expr := Slot{Path: "user.name", Type: TypeExpression}
	if got := expr.Label(); got != "user.name" {
		t.Fatalf("expression label: got %q", got)
	}

	component := Slot{Type: TypeComponent, ComponentName: "PropertyTable"}
	if got := component.Label(); got != "<PropertyTable />" {
		t.Fatalf("component label: got %q", got)
	}
}
