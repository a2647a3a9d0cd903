package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "simple", in: "a.b.c", want: []string{"a", "b", "c"}},
		{name: "single segment", in: "title", want: []string{"title"}},
		{name: "trims whitespace", in: " a . b ", want: []string{"a", "b"}},
		{name: "drops empty segments", in: "a..b", want: []string{"a", "b"}},
		{name: "empty", in: "", want: []string{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SplitPath(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	values := map[string]any{
		"title": "Hello",
		"user": map[string]any{
			"profile": map[string]any{"name": "Sarah"},
		},
		"cta.headline": "literal dotted key",
		"labels":       map[string]string{"env": "prod"},
	}

	cases := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "top level", path: "title", want: "Hello", wantOK: true},
		{name: "nested", path: "user.profile.name", want: "Sarah", wantOK: true},
		{name: "literal dotted key wins", path: "cta.headline", want: "literal dotted key", wantOK: true},
		{name: "string map leaf", path: "labels.env", want: "prod", wantOK: true},
		{name: "missing leaf", path: "user.profile.age", wantOK: false},
		{name: "traversal through scalar", path: "title.size", wantOK: false},
		{name: "empty path", path: "", wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Get(values, tc.path)
			if ok != tc.wantOK {
				t.Fatalf("get %q: want ok=%v, got ok=%v", tc.path, tc.wantOK, ok)
			}
			if !tc.wantOK {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("get %q mismatch (-want +got):\n%s", tc.path, diff)
			}
		})
	}
}

func TestSet_CreatesIntermediates(t *testing.T) {
	values := map[string]any{}
	Set(values, "user.profile.name", "Sarah")

	want := map[string]any{
		"user": map[string]any{
			"profile": map[string]any{"name": "Sarah"},
		},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_LastWriteWins(t *testing.T) {
	values := map[string]any{}
	Set(values, "a.b", "first")
	Set(values, "a.b", "second")

	got, ok := Get(values, "a.b")
	if !ok || got != "second" {
		t.Fatalf("want last write to win, got %v (ok=%v)", got, ok)
	}
}

func TestSet_ReplacesScalarIntermediate(t *testing.T) {
	values := map[string]any{"a": "scalar"}
	Set(values, "a.b", "nested")

	got, ok := Get(values, "a.b")
	if !ok || got != "nested" {
		t.Fatalf("want scalar intermediate replaced, got %v (ok=%v)", got, ok)
	}
}
