package value

import "strings"

// SplitPath breaks a dot path such as "user.profile.name" into its segments.
// Surrounding whitespace is trimmed and empty segments are dropped, so
// " a . b " and "a..b" both split to ["a", "b"].
func SplitPath(path string) []string {
	raw := strings.Split(path, ".")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// JoinPath is the inverse of SplitPath.
func JoinPath(parts []string) string {
	return strings.Join(parts, ".")
}

// Get resolves a dot path against values. A dotted key stored literally on
// the top level wins over traversal, which matches how render payloads often
// carry keys like "cta.headline".
func Get(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range SplitPath(path) {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes v at the dot path, creating intermediate maps as needed. An
// intermediate that is not a map is replaced by one, so the last write to a
// path always wins. Set stores v as given; callers wanting canonical form
// normalize first.
func Set(values map[string]any, path string, v any) {
	parts := SplitPath(path)
	if values == nil || len(parts) == 0 {
		return
	}

	current := values
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = v
}
