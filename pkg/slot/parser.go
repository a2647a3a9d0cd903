package slot

import "strings"

// Split tokenizes template into the alternating literal/slot view the
// matcher and renderer walk. Text that fails to parse as a slot (an
// unterminated brace, an unknown tag shape, a brace whose content is not a
// binding) is folded back into the surrounding literal segment.
func Split(template string) []Segment {
	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(template) {
		switch template[i] {
		case '{':
			if parsed, end, ok := scanBrace(template, i); ok {
				flush()
				segments = append(segments, Segment{Slot: &parsed})
				i = end
				continue
			}
		case '<':
			if parsed, end, ok := scanComponent(template, i); ok {
				flush()
				segments = append(segments, Segment{Slot: &parsed})
				i = end
				continue
			}
		}
		literal.WriteByte(template[i])
		i++
	}
	flush()
	return segments
}

// scanBrace reads a balanced {...} span starting at open and classifies its
// content. ok is false when the span is unterminated or the content is not a
// recognizable binding; the caller keeps the text literal either way.
func scanBrace(template string, open int) (Slot, int, bool) {
	content, end, ok := scanBraceSpan(template, open)
	if !ok {
		return Slot{}, 0, false
	}
	parsed, ok := classify(template[open:end], content)
	if !ok {
		return Slot{}, 0, false
	}
	return parsed, end, true
}

// scanBraceSpan finds the close brace matching template[open], counting
// nested pairs so loop bodies with ${...} interpolation stay inside the
// span. Returns the inner content and the index just past the close brace.
func scanBraceSpan(template string, open int) (string, int, bool) {
	depth := 0
	for i := open; i < len(template); i++ {
		switch template[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return template[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func classify(raw, content string) (Slot, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Slot{}, false
	}

	if idx := strings.Index(trimmed, ".map("); idx >= 0 {
		path := strings.TrimSpace(trimmed[:idx])
		if !isPath(path) {
			return Slot{}, false
		}
		return Slot{Path: path, Type: TypeLoop, Raw: raw}, true
	}

	if q := strings.IndexByte(trimmed, '?'); q > 0 && strings.IndexByte(trimmed[q:], ':') > 0 {
		path := leadingPath(trimmed)
		if path == "" {
			return Slot{}, false
		}
		return Slot{Path: path, Type: TypeConditional, Raw: raw}, true
	}

	if isPath(trimmed) {
		return Slot{Path: trimmed, Type: TypeExpression, Raw: raw}, true
	}

	// Other call forms such as {formatDate(now)} are dynamic too. They are
	// classified with conditionals so validation can route them to AI
	// assistance instead of deterministic matching.
	if strings.ContainsRune(trimmed, '(') && strings.HasSuffix(trimmed, ")") {
		path := leadingPath(trimmed)
		if path == "" {
			return Slot{}, false
		}
		return Slot{Path: path, Type: TypeConditional, Raw: raw}, true
	}

	return Slot{}, false
}

// scanComponent reads a capitalized component tag starting at open. Both
// self-closing tags and block tags with a matching </Name> close are
// recognized; lowercase tags are left for the literal stream, so plain HTML
// in templates survives untouched.
func scanComponent(template string, open int) (Slot, int, bool) {
	name := scanTagName(template, open+1)
	if name == "" {
		return Slot{}, 0, false
	}

	var props map[string]string
	i := open + 1 + len(name)
	for i < len(template) {
		for i < len(template) && isSpace(template[i]) {
			i++
		}
		if i >= len(template) {
			return Slot{}, 0, false
		}

		if strings.HasPrefix(template[i:], "/>") {
			end := i + 2
			return Slot{Type: TypeComponent, ComponentName: name, ComponentProps: props, Raw: template[open:end]}, end, true
		}
		if template[i] == '>' {
			closing := "</" + name + ">"
			offset := strings.Index(template[i+1:], closing)
			if offset < 0 {
				return Slot{}, 0, false
			}
			end := i + 1 + offset + len(closing)
			return Slot{Type: TypeComponent, ComponentName: name, ComponentProps: props, Raw: template[open:end]}, end, true
		}

		propName, propEnd := scanPropName(template, i)
		if propName == "" {
			return Slot{}, 0, false
		}
		i = propEnd
		if i >= len(template) || template[i] != '=' {
			continue // bare prop, nothing to bind
		}
		i++
		if i >= len(template) {
			return Slot{}, 0, false
		}
		switch template[i] {
		case '{':
			content, valueEnd, ok := scanBraceSpan(template, i)
			if !ok {
				return Slot{}, 0, false
			}
			if path := strings.TrimSpace(content); isPath(path) {
				if props == nil {
					props = map[string]string{}
				}
				props[propName] = path
			}
			i = valueEnd
		case '"', '\'':
			valueEnd, ok := scanQuoted(template, i)
			if !ok {
				return Slot{}, 0, false
			}
			i = valueEnd
		default:
			return Slot{}, 0, false
		}
	}
	return Slot{}, 0, false
}

// scanTagName accepts component names only: an uppercase letter followed by
// letters and digits.
func scanTagName(template string, start int) string {
	if start >= len(template) {
		return ""
	}
	if ch := template[start]; ch < 'A' || ch > 'Z' {
		return ""
	}
	end := start + 1
	for end < len(template) {
		ch := template[end]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			end++
			continue
		}
		break
	}
	return template[start:end]
}

func scanPropName(template string, start int) (string, int) {
	if start >= len(template) {
		return "", start
	}
	if ch := template[start]; !(ch >= 'a' && ch <= 'z') && !(ch >= 'A' && ch <= 'Z') && ch != '_' {
		return "", start
	}
	end := start + 1
	for end < len(template) {
		ch := template[end]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-' {
			end++
			continue
		}
		break
	}
	return template[start:end], end
}

// scanQuoted skips a quoted attribute value, honoring backslash escapes, and
// returns the index just past the closing quote.
func scanQuoted(template string, open int) (int, bool) {
	quote := template[open]
	escaped := false
	for i := open + 1; i < len(template); i++ {
		ch := template[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == quote {
			return i + 1, true
		}
	}
	return 0, false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isPath reports whether raw is a bare dot path: identifier segments joined
// by single dots.
func isPath(raw string) bool {
	if raw == "" {
		return false
	}
	for _, part := range strings.Split(raw, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

func isIdentifier(part string) bool {
	if part == "" {
		return false
	}
	for i := 0; i < len(part); i++ {
		ch := part[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == '$':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// leadingPath returns the longest dot-path prefix of expr, e.g.
// "user.premium" from "user.premium ? \"Pro\" : \"Free\"".
func leadingPath(expr string) string {
	end := 0
	for end < len(expr) {
		ch := expr[end]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '.' || ch == '_' || ch == '$' {
			end++
			continue
		}
		break
	}
	path := strings.TrimSuffix(expr[:end], ".")
	if !isPath(path) {
		return ""
	}
	return path
}
