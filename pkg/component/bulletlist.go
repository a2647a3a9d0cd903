package component

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-untemplate/pkg/value"
)

// NewBulletList builds the codec behind <BulletList items={path} />. It
// renders an array as "- item" lines and parses dash or star bullets back
// into the array.
func NewBulletList() *Component {
	return mustRoundTrip(Spec{
		Name:    "BulletList",
		Render:  renderBulletList,
		Extract: extractBulletList,
	})
}

func renderBulletList(props map[string]any) (string, error) {
	data, ok := props["items"]
	if !ok {
		return "", fmt.Errorf("component: BulletList: items prop is required")
	}
	items, ok := value.Normalize(data).([]any)
	if !ok {
		return "", fmt.Errorf("component: BulletList: items must be an array, got %T", data)
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(cellString(item))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractBulletList(content string) (map[string]any, error) {
	items := []any{}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "- "); ok {
			items = append(items, strings.TrimSpace(after))
			continue
		}
		if after, ok := strings.CutPrefix(trimmed, "* "); ok {
			items = append(items, strings.TrimSpace(after))
		}
	}
	return map[string]any{"items": items}, nil
}
