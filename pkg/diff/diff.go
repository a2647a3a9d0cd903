// Package diff reports the structural difference between two data states,
// usually the data a document was rendered from and the data extracted back
// out of its edited rendering. Changes are keyed by dot path; arrays compare
// atomically, so an element edit shows up as one modification of the whole
// array.
package diff

import (
	"sort"

	"github.com/goliatone/go-untemplate/pkg/value"
)

// Change records one modified path.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Result partitions every observed difference into exactly one category.
// The zero Result means the two states are structurally equal.
type Result struct {
	// Added holds paths present only in the new state, with their values.
	Added map[string]any `json:"added,omitempty"`
	// Modified holds paths present in both states with different values.
	Modified map[string]Change `json:"modified,omitempty"`
	// Removed lists paths present only in the original state, sorted.
	Removed []string `json:"removed,omitempty"`
	// HasChanges is true when any category is non-empty.
	HasChanges bool `json:"hasChanges"`
}

// Diff compares original and extracted after normalizing both. Maps are
// walked recursively; everything else, arrays included, compares as an
// atomic value. Comparing a state to itself yields the zero Result.
func Diff(original, extracted any) Result {
	var result Result

	left, leftOK := value.Normalize(original).(map[string]any)
	right, rightOK := value.Normalize(extracted).(map[string]any)
	if !leftOK || !rightOK {
		// Non-map roots compare atomically under the root path "".
		if !value.Equal(original, extracted) {
			result.Modified = map[string]Change{
				"": {From: value.Normalize(original), To: value.Normalize(extracted)},
			}
		}
		result.HasChanges = len(result.Modified) > 0
		return result
	}

	walk("", left, right, &result)
	sort.Strings(result.Removed)
	result.HasChanges = len(result.Added) > 0 || len(result.Modified) > 0 || len(result.Removed) > 0
	return result
}

func walk(prefix string, original, extracted map[string]any, result *Result) {
	for key, from := range original {
		path := joinKey(prefix, key)
		to, present := extracted[key]
		if !present {
			result.Removed = append(result.Removed, path)
			continue
		}

		fromMap, fromIsMap := from.(map[string]any)
		toMap, toIsMap := to.(map[string]any)
		if fromIsMap && toIsMap {
			walk(path, fromMap, toMap, result)
			continue
		}

		if !value.Equal(from, to) {
			if result.Modified == nil {
				result.Modified = map[string]Change{}
			}
			result.Modified[path] = Change{From: from, To: to}
		}
	}

	for key, to := range extracted {
		if _, present := original[key]; present {
			continue
		}
		if result.Added == nil {
			result.Added = map[string]any{}
		}
		result.Added[joinKey(prefix, key)] = to
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
