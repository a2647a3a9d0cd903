// Package merge applies extracted data back onto an original state. Apply
// never mutates either input; it returns a fresh structure built from deep
// copies, so callers can keep the original around for diffing or rollback.
package merge

import "github.com/goliatone/go-untemplate/pkg/value"

// ArrayMerge selects how array values combine when both states carry one at
// the same path.
type ArrayMerge string

const (
	// ArrayReplace swaps the original array for the extracted one. This is
	// the default.
	ArrayReplace ArrayMerge = "replace"
	// ArrayAppend keeps the original elements and adds the extracted ones
	// after them.
	ArrayAppend ArrayMerge = "append"
	// ArrayPrepend puts the extracted elements before the original ones.
	ArrayPrepend ArrayMerge = "prepend"
)

// Options tunes one merge.
type Options struct {
	// Paths restricts the merge to the listed dot paths and everything under
	// them. Empty applies the whole extracted state.
	Paths []string
	// ArrayMerge defaults to ArrayReplace.
	ArrayMerge ArrayMerge
}

// Apply merges extracted onto original and returns the combined state. Maps
// merge key by key, arrays combine per Options.ArrayMerge, and any other
// pairing replaces the original value. Missing intermediate maps are created
// when a filtered path points below them.
func Apply(original, extracted any, opts Options) any {
	base := value.Clone(original)
	patch := value.Normalize(extracted)

	if len(opts.Paths) == 0 {
		return mergeValues(base, patch, opts.ArrayMerge)
	}

	baseMap, ok := base.(map[string]any)
	if !ok {
		baseMap = map[string]any{}
	}
	patchMap, ok := patch.(map[string]any)
	if !ok {
		return baseMap
	}

	for _, path := range opts.Paths {
		pv, found := value.Get(patchMap, path)
		if !found {
			continue
		}
		bv, has := value.Get(baseMap, path)
		if !has {
			value.Set(baseMap, path, value.Clone(pv))
			continue
		}
		value.Set(baseMap, path, mergeValues(bv, pv, opts.ArrayMerge))
	}
	return baseMap
}

// mergeValues combines one pair of values. base is already owned by the
// caller's result; patch values are cloned before they land in it.
func mergeValues(base, patch any, mode ArrayMerge) any {
	baseMap, baseIsMap := base.(map[string]any)
	patchMap, patchIsMap := patch.(map[string]any)
	if baseIsMap && patchIsMap {
		for key, pv := range patchMap {
			bv, ok := baseMap[key]
			if !ok {
				baseMap[key] = value.Clone(pv)
				continue
			}
			baseMap[key] = mergeValues(bv, pv, mode)
		}
		return baseMap
	}

	if baseArr, ok := base.([]any); ok {
		if patchArr, ok := value.Clone(patch).([]any); ok {
			switch mode {
			case ArrayAppend:
				return append(baseArr, patchArr...)
			case ArrayPrepend:
				return append(patchArr, baseArr...)
			default:
				return patchArr
			}
		}
	}
	return value.Clone(patch)
}
