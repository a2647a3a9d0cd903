// Package openapi bridges OpenAPI documents and the extraction pipeline.
// SchemaRecord projects a named schema into the map shape documentation
// templates bind to, and ApplyRecord writes extracted edits back into the
// document, so a schema can round-trip through rendered docs.
package openapi

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-untemplate/pkg/value"
)

// LoadDocument parses a JSON or YAML OpenAPI document.
func LoadDocument(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

// SchemaRecord projects the named component schema into a record. The title
// falls back to the schema name, and the properties entry carries rows in the
// shape the PropertyTable component consumes: name, type, required,
// description. Every key a record carries is one a doc template can bind, so
// diffing a record against extracted data stays clean.
func SchemaRecord(spec *openapi3.T, name string) (map[string]any, error) {
	schema, err := lookupSchema(spec, name)
	if err != nil {
		return nil, err
	}

	record := map[string]any{
		"title":       schema.Title,
		"description": schema.Description,
	}
	if schema.Title == "" {
		record["title"] = name
	}

	names := make([]string, 0, len(schema.Properties))
	for propName := range schema.Properties {
		names = append(names, propName)
	}
	sort.Strings(names)

	rows := make([]any, 0, len(names))
	for _, propName := range names {
		ref := schema.Properties[propName]
		row := map[string]any{
			"name":        propName,
			"type":        "",
			"required":    slices.Contains(schema.Required, propName),
			"description": "",
		}
		if ref != nil && ref.Value != nil {
			row["type"] = schemaType(ref.Value.Type)
			row["description"] = ref.Value.Description
		}
		rows = append(rows, row)
	}
	record["properties"] = rows

	return record, nil
}

// ApplyRecord writes a record's edits back onto the named schema: the
// top-level description and title, per-property descriptions, and the
// required list when the rows carry required flags. Rows naming unknown
// properties fail rather than silently dropping an edit.
func ApplyRecord(spec *openapi3.T, name string, data map[string]any) error {
	schema, err := lookupSchema(spec, name)
	if err != nil {
		return err
	}

	record, _ := value.Normalize(data).(map[string]any)

	if desc, ok := record["description"].(string); ok {
		schema.Description = desc
	}
	if title, ok := record["title"].(string); ok && title != "" {
		schema.Title = title
	}

	rows, ok := record["properties"].([]any)
	if !ok {
		return nil
	}

	var required []string
	sawRequired := false
	for i, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("openapi: schema %q property row %d is not an object", name, i)
		}
		propName, _ := row["name"].(string)
		propName = strings.TrimSpace(propName)
		if propName == "" {
			return fmt.Errorf("openapi: schema %q property row %d has no name", name, i)
		}

		ref, exists := schema.Properties[propName]
		if !exists {
			return fmt.Errorf("openapi: schema %q has no property %q", name, propName)
		}
		if desc, ok := row["description"].(string); ok && ref != nil && ref.Value != nil {
			ref.Value.Description = desc
		}

		if flag, ok := row["required"]; ok {
			sawRequired = true
			if parseFlag(flag) {
				required = append(required, propName)
			}
		}
	}

	if sawRequired {
		sort.Strings(required)
		schema.Required = required
	}
	return nil
}

func lookupSchema(spec *openapi3.T, name string) (*openapi3.Schema, error) {
	if spec == nil {
		return nil, fmt.Errorf("openapi: document is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("openapi: schema name is required")
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, fmt.Errorf("openapi: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	return ref.Value, nil
}

// schemaType flattens the 3.1-style type list to the single label doc
// templates print.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func parseFlag(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(tv))
		return err == nil && parsed
	default:
		return false
	}
}
