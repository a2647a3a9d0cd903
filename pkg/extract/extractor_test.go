package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract_SimpleExpressions(t *testing.T) {
	cases := []struct {
		name     string
		template string
		rendered string
		want     map[string]any
	}{
		{
			name:     "single slot",
			template: "Hello {name}!",
			rendered: "Hello Sarah!",
			want:     map[string]any{"name": "Sarah"},
		},
		{
			name:     "nested path creates intermediates",
			template: "Signed by {user.profile.name}.",
			rendered: "Signed by Ada Lovelace.",
			want: map[string]any{
				"user": map[string]any{
					"profile": map[string]any{"name": "Ada Lovelace"},
				},
			},
		},
		{
			name:     "labeled lines",
			template: "Name: {user.name}\nAge: {user.age}\nCity: {user.city}",
			rendered: "Name: Sarah\nAge: 33\nCity: Lisbon",
			want: map[string]any{
				"user": map[string]any{
					"name": "Sarah",
					"age":  "33",
					"city": "Lisbon",
				},
			},
		},
		{
			name:     "capture runs to end without trailing anchor",
			template: "Notes: {notes}",
			rendered: "Notes: several lines\nof free text",
			want:     map[string]any{"notes": "several lines\nof free text"},
		},
		{
			name:     "markdown headers anchor sections",
			template: "# {title}\n\n{description}\n\nBy {author.name}",
			rendered: "# Go Guide\n\nLearn the language fast\n\nBy Sarah",
			want: map[string]any{
				"title":       "Go Guide",
				"description": "Learn the language fast",
				"author":      map[string]any{"name": "Sarah"},
			},
		},
		{
			name:     "duplicate path keeps last capture",
			template: "{greeting} and again {greeting}!",
			rendered: "Hello and again Goodbye!",
			want:     map[string]any{"greeting": "Goodbye"},
		},
		{
			name:     "conditional captures the rendered branch",
			template: "Plan: {user.premium ? \"Pro\" : \"Free\"} tier",
			rendered: "Plan: Pro tier",
			want: map[string]any{
				"user": map[string]any{"premium": "Pro"},
			},
		},
		{
			name:     "loop captures its raw span",
			template: "Features:\n{items.map(item => `- ${item}`)}\nDone.",
			rendered: "Features:\n- fast\n- small\nDone.",
			want:     map[string]any{"items": "- fast\n- small"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Extract(Request{Template: tc.template, Rendered: tc.rendered})
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if diff := cmp.Diff(tc.want, got.Data); diff != "" {
				t.Fatalf("data mismatch (-want +got):\n%s", diff)
			}
			if got.Confidence != 1 {
				t.Fatalf("want full confidence, got %v (unmatched %v)", got.Confidence, got.Unmatched)
			}
			if !got.Debug.Matched {
				t.Fatalf("debug should report a full match: %+v", got.Debug)
			}
		})
	}
}

func TestExtract_WhitespaceSeparatedSlots(t *testing.T) {
	got, err := Extract(Request{
		Template: "By {first} {last}",
		Rendered: "By Mary Jane Watson",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// The first capture stays as short as possible, the last takes the rest.
	want := map[string]any{"first": "Mary", "last": "Jane Watson"}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_AdjacentSlotsCannotBeSeparated(t *testing.T) {
	got, err := Extract(Request{
		Template: "{a}{b} end",
		Rendered: "payload end",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"a": "payload"}, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, got.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("want confidence 0.5, got %v", got.Confidence)
	}
}

func TestExtract_PartialMatchResynchronizes(t *testing.T) {
	// The "Age:" anchor is missing from the rendered text. Every slot it
	// bounds reports unmatched, and the scan resynchronizes at "City:".
	got, err := Extract(Request{
		Template: "Name: {name}\nAge: {age}\nCity: {city}",
		Rendered: "Name: Sarah\nCity: Lisbon",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{"city": "Lisbon"}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "age"}, got.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence <= 0 || got.Confidence >= 1 {
		t.Fatalf("partial match confidence should sit between 0 and 1, got %v", got.Confidence)
	}
	if got.Debug.Matched {
		t.Fatalf("debug should not report a full match")
	}
}

func TestExtract_HeaderAnchorRequiresLineStart(t *testing.T) {
	// The "#" of the header anchor must not bind to a "#" buried in prose.
	got, err := Extract(Request{
		Template: "# {title}",
		Rendered: "see #5 for context\n# Real Title",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"title": "Real Title"}, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_EmptyTemplate(t *testing.T) {
	got, err := Extract(Request{Template: "", Rendered: "anything"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(got.Data) != 0 {
		t.Fatalf("want empty data, got %v", got.Data)
	}
	if got.Confidence != 1 {
		t.Fatalf("zero slots should score 1, got %v", got.Confidence)
	}
	if got.Debug.Groups == nil {
		t.Fatalf("debug groups should always be populated")
	}
}

func TestExtract_EmptyRendered(t *testing.T) {
	got, err := Extract(Request{Template: "Hi {name}", Rendered: ""})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got.Confidence != 0 {
		t.Fatalf("want confidence 0, got %v", got.Confidence)
	}
	if diff := cmp.Diff([]string{"name"}, got.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StrictModeReturnsTypedError(t *testing.T) {
	_, err := Extract(Request{
		Template: "Name: {name}\nAge: {age}",
		Rendered: "Name: Sarah\nAge:",
		Strict:   true,
	})
	if err == nil {
		t.Fatalf("strict extraction with unmatched slots must error")
	}

	var extractErr *Error
	if !errors.As(err, &extractErr) {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if diff := cmp.Diff([]string{"age"}, extractErr.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if len(extractErr.Debug.Slots) != 2 || extractErr.Debug.Pattern == "" {
		t.Fatalf("error should carry full debug state: %+v", extractErr.Debug)
	}
}

func TestExtract_StrictModeCleanMatchSucceeds(t *testing.T) {
	got, err := Extract(Request{
		Template: "Hi {name}!",
		Rendered: "Hi Sarah!",
		Strict:   true,
	})
	if err != nil {
		t.Fatalf("strict extraction with a clean match should not error: %v", err)
	}
	if got.Confidence != 1 {
		t.Fatalf("want confidence 1, got %v", got.Confidence)
	}
}

func TestExtract_ComponentPlacementProps(t *testing.T) {
	table := ExtractorFunc(func(content string) (map[string]any, error) {
		if content == "" {
			t.Fatalf("component should receive its rendered span")
		}
		return map[string]any{
			"data":    []any{map[string]any{"name": "id"}},
			"caption": "Fields",
		}, nil
	})

	got, err := Extract(Request{
		Template:   "## Schema\n\n<PropertyTable data={api.fields} />\n\nEnd.",
		Rendered:   "## Schema\n\n| name |\n| --- |\n| id |\n\nEnd.",
		Extractors: map[string]ComponentExtractor{"PropertyTable": table},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{
		"api": map[string]any{
			"fields":  []any{map[string]any{"name": "id"}},
			"caption": "Fields",
		},
	}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ComponentPlacementRoot(t *testing.T) {
	table := ExtractorFunc(func(string) (map[string]any, error) {
		return map[string]any{"rows": []any{"a", "b"}}, nil
	})

	got, err := Extract(Request{
		Template:   "<Listing data={api.fields} />",
		Rendered:   "- a\n- b",
		Extractors: map[string]ComponentExtractor{"Listing": table},
		Placement:  PlacementRoot,
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := map[string]any{"rows": []any{"a", "b"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_ComponentWithoutExtractorIsUnmatched(t *testing.T) {
	got, err := Extract(Request{
		Template: "Before\n<PropertyTable data={rows} />\nAfter",
		Rendered: "Before\n| a |\nAfter",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if diff := cmp.Diff([]string{"<PropertyTable />"}, got.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if got.Confidence != 0 {
		t.Fatalf("want confidence 0, got %v", got.Confidence)
	}
}

func TestExtract_ComponentErrorPropagates(t *testing.T) {
	boom := errors.New("bad table shape")
	failing := ExtractorFunc(func(string) (map[string]any, error) {
		return nil, boom
	})

	_, err := Extract(Request{
		Template:   "<PropertyTable data={rows} />",
		Rendered:   "| a |",
		Extractors: map[string]ComponentExtractor{"PropertyTable": failing},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("component errors must pass through unchanged, got %v", err)
	}
}

func TestExtract_CustomScorer(t *testing.T) {
	got, err := Extract(Request{
		Template: "Hi {name} from {city}",
		Rendered: "Hi Sarah from",
		Scorer: func(total, unmatched int) float64 {
			if unmatched > 0 {
				return 0
			}
			return 1
		},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Confidence != 0 {
		t.Fatalf("custom scorer should be honored, got %v", got.Confidence)
	}
}

func TestExtract_DebugGroups(t *testing.T) {
	got, err := Extract(Request{
		Template: "Hello {user.name}, welcome to {site}!",
		Rendered: "Hello Sarah, welcome to Untemplate!",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	wantGroups := map[string]string{
		"user.name": "Sarah",
		"site":      "Untemplate",
	}
	if diff := cmp.Diff(wantGroups, got.Debug.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if len(got.Debug.Slots) != 2 {
		t.Fatalf("debug should list parsed slots, got %d", len(got.Debug.Slots))
	}
	if got.Debug.Pattern == "" {
		t.Fatalf("debug pattern should be rendered")
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		name             string
		total, unmatched int
		want             float64
	}{
		{name: "no slots", total: 0, unmatched: 0, want: 1},
		{name: "all matched", total: 4, unmatched: 0, want: 1},
		{name: "half matched", total: 4, unmatched: 2, want: 0.5},
		{name: "none matched", total: 3, unmatched: 3, want: 0},
		{name: "over-reported unmatched clamps", total: 2, unmatched: 5, want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tc.total, tc.unmatched); got != tc.want {
				t.Fatalf("score(%d, %d): want %v, got %v", tc.total, tc.unmatched, tc.want, got)
			}
		})
	}
}
