package untemplate_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	untemplate "github.com/goliatone/go-untemplate"
)

func TestExtractHeadline(t *testing.T) {
	got, err := untemplate.Extract("# {data.title}", "# Hello World")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{"data": map[string]any{"title": "Hello World"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence != 1 {
		t.Fatalf("want confidence 1, got %v", got.Confidence)
	}
}

func TestExtractDeepPath(t *testing.T) {
	got, err := untemplate.Extract("{user.profile.settings.theme}", "dark")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{
		"user": map[string]any{
			"profile": map[string]any{
				"settings": map[string]any{"theme": "dark"},
			},
		},
	}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractUnboundComponent(t *testing.T) {
	template := "# {data.title}\n\n<PropertyTable properties={data.properties} />"
	rendered := "# Test\n\n| Name | Type |\n|------|------|\n| id | string |"

	got, err := untemplate.Extract(template, rendered, untemplate.WithComponents(nil))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{"data": map[string]any{"title": "Test"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"<PropertyTable />"}, got.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("want confidence 0.5, got %v", got.Confidence)
	}
}

func TestExtractUnboundComponentStrict(t *testing.T) {
	template := "# {data.title}\n\n<PropertyTable properties={data.properties} />"
	rendered := "# Test\n\n| Name | Type |\n|------|------|\n| id | string |"

	_, err := untemplate.Extract(template, rendered,
		untemplate.WithComponents(nil), untemplate.WithStrict())
	if err == nil {
		t.Fatal("strict extraction with an unbound component must fail")
	}

	var exErr *untemplate.Error
	if !errors.As(err, &exErr) {
		t.Fatalf("want *untemplate.Error, got %T: %v", err, err)
	}
	if !slices.Contains(exErr.Unmatched, "<PropertyTable />") {
		t.Fatalf("error should list the component slot, got %v", exErr.Unmatched)
	}
}

func TestDiffDetectsAddedKey(t *testing.T) {
	got := untemplate.Diff(
		map[string]any{"title": "Hello"},
		map[string]any{"title": "Hello", "subtitle": "World"},
	)

	want := untemplate.DiffResult{
		Added:      map[string]any{"subtitle": "World"},
		HasChanges: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diff mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyAppendsArrays(t *testing.T) {
	got := untemplate.Apply(
		map[string]any{"tags": []any{"a", "b"}},
		map[string]any{"tags": []any{"c"}},
		untemplate.MergeOptions{ArrayMerge: untemplate.ArrayAppend},
	)

	want := map[string]any{"tags": []any{"a", "b", "c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("apply mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderExtractRoundTrip(t *testing.T) {
	template := "# {title}\n\n<PropertyTable data={fields} />\n"
	values := map[string]any{
		"title": "Widget",
		"fields": []any{
			map[string]any{"name": "id", "type": "string", "required": true, "description": "Primary key"},
			map[string]any{"name": "note", "type": "string", "required": false, "description": "Free text"},
		},
	}

	rendered, err := untemplate.Render(template, values)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got, err := untemplate.Extract(template, rendered)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff(values, got.Data); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence != 1 {
		t.Fatalf("want confidence 1, got %v", got.Confidence)
	}
}

func TestValidateFlagsLogicSlots(t *testing.T) {
	report := untemplate.Validate("{done ? 'yes' : 'no'} items: {items.map(i => i.name)} for {user.name}")

	if !report.Valid {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}
	if diff := cmp.Diff([]string{"user.name"}, report.Extractable); diff != "" {
		t.Fatalf("extractable mismatch (-want +got):\n%s", diff)
	}
	if len(report.NeedsAI) != 2 {
		t.Fatalf("want 2 slots needing AI, got %v", report.NeedsAI)
	}
}
