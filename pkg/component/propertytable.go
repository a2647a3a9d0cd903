package component

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-untemplate/internal/mdtable"
	"github.com/goliatone/go-untemplate/pkg/value"
)

// propertyColumns fixes the table layout so render and extract agree on it.
var propertyColumns = []string{"Name", "Type", "Required", "Description"}

// NewPropertyTable builds the codec behind <PropertyTable data={path} />. It
// renders an array of property objects ({name, type, required, description})
// as a markdown table and parses such a table back into the same rows.
func NewPropertyTable() *Component {
	return mustRoundTrip(Spec{
		Name:    "PropertyTable",
		Render:  renderPropertyTable,
		Extract: extractPropertyTable,
	})
}

func renderPropertyTable(props map[string]any) (string, error) {
	data, ok := props["data"]
	if !ok {
		return "", fmt.Errorf("component: PropertyTable: data prop is required")
	}
	rows, ok := value.Normalize(data).([]any)
	if !ok {
		return "", fmt.Errorf("component: PropertyTable: data must be an array, got %T", data)
	}

	table := mdtable.Table{Headers: propertyColumns}
	for i, item := range rows {
		row, ok := item.(map[string]any)
		if !ok {
			return "", fmt.Errorf("component: PropertyTable: row %d must be an object, got %T", i, item)
		}
		table.Rows = append(table.Rows, []string{
			cellString(row["name"]),
			cellString(row["type"]),
			boolCell(row["required"]),
			cellString(row["description"]),
		})
	}
	return mdtable.Render(table), nil
}

func extractPropertyTable(content string) (map[string]any, error) {
	table, err := mdtable.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("component: PropertyTable: %w", err)
	}

	rows := make([]any, 0, len(table.Rows))
	for _, cells := range table.Rows {
		row := map[string]any{}
		for i, header := range table.Headers {
			if i >= len(cells) {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(header))
			if key == "" {
				continue
			}
			if key == "required" {
				row[key] = parseBoolCell(cells[i])
				continue
			}
			row[key] = cells[i]
		}
		rows = append(rows, row)
	}
	return map[string]any{"data": rows}, nil
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	default:
		return fmt.Sprint(v)
	}
}

func boolCell(v any) string {
	if parseBoolValue(v) {
		return "yes"
	}
	return "no"
}

func parseBoolCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "yes", "true", "y", "required", "✓":
		return true
	default:
		return false
	}
}

func parseBoolValue(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		return parseBoolCell(typed)
	default:
		return false
	}
}
