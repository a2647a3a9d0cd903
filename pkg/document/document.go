// Package document splits markdown files into YAML frontmatter and body and
// reassembles them, so extraction can run against bodies while document
// metadata survives the round trip untouched.
package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-untemplate/pkg/value"
)

const fence = "---"

// Document is a markdown file with optional YAML frontmatter. Raw preserves
// the input Parse saw; Compose rebuilds from FrontMatter and Body instead.
type Document struct {
	FrontMatter map[string]any
	Body        string
	Raw         string
}

// Parse splits raw into frontmatter and body. Input without a leading fence
// is all body with nil FrontMatter. Frontmatter values come back in canonical
// form, so numbers are float64 regardless of how YAML spelled them.
func Parse(raw string) (Document, error) {
	doc := Document{Raw: raw}

	rest, ok := strings.CutPrefix(raw, fence+"\n")
	if !ok {
		doc.Body = raw
		return doc, nil
	}

	meta, body, err := splitFence(rest)
	if err != nil {
		return Document{}, err
	}

	var front map[string]any
	if err := yaml.Unmarshal([]byte(meta), &front); err != nil {
		return Document{}, fmt.Errorf("document: parse frontmatter: %w", err)
	}
	if front != nil {
		normalized, _ := value.Normalize(front).(map[string]any)
		front = normalized
	}

	doc.FrontMatter = front
	doc.Body = body
	return doc, nil
}

// Compose renders doc back to text. Empty frontmatter yields the bare body,
// which keeps Compose(Parse(x)) stable for fenceless documents.
func Compose(doc Document) (string, error) {
	if len(doc.FrontMatter) == 0 {
		return doc.Body, nil
	}

	meta, err := yaml.Marshal(doc.FrontMatter)
	if err != nil {
		return "", fmt.Errorf("document: encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(fence)
	b.WriteString("\n")
	b.Write(meta)
	b.WriteString(fence)
	b.WriteString("\n")
	b.WriteString(doc.Body)
	return b.String(), nil
}

// splitFence finds the closing fence line in the text after the opening one.
// The fence only closes as a full line, so a yaml value containing dashes
// cannot end the block early.
func splitFence(rest string) (meta, body string, err error) {
	if rest == fence || strings.HasPrefix(rest, fence+"\n") {
		// Empty frontmatter block.
		body = strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n")
		return "", body, nil
	}

	search := 0
	for {
		idx := strings.Index(rest[search:], "\n"+fence)
		if idx < 0 {
			return "", "", fmt.Errorf("document: unterminated frontmatter fence")
		}
		idx += search
		end := idx + 1 + len(fence)
		if end == len(rest) {
			return rest[:idx+1], "", nil
		}
		if rest[end] == '\n' {
			return rest[:idx+1], rest[end+1:], nil
		}
		search = idx + 1
	}
}
