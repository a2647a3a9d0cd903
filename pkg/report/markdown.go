package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-untemplate/internal/mdtable"
	"github.com/goliatone/go-untemplate/pkg/render"
)

// Markdown renders reports as plain markdown, the format the rest of the
// pipeline already speaks.
type Markdown struct{}

// NewMarkdown constructs the markdown renderer.
func NewMarkdown() *Markdown { return &Markdown{} }

var _ Renderer = (*Markdown)(nil)

// Name identifies the renderer inside the registry.
func (*Markdown) Name() string { return "markdown" }

// ContentType returns the MIME type for generated documents.
func (*Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

// Render produces the markdown report.
func (*Markdown) Render(_ context.Context, report Report, opts Options) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", titleOf(opts))
	if !report.Generated.IsZero() {
		fmt.Fprintf(&b, "\nGenerated: %s\n", report.Generated.UTC().Format(time.RFC3339))
	}

	if report.Extract != nil {
		fmt.Fprintf(&b, "\n## Extraction\n\nConfidence: %.2f\n", report.Extract.Confidence)

		if rows := flattenData(report.Extract.Data); len(rows) > 0 {
			table := mdtable.Table{Headers: []string{"Path", "Value"}}
			for _, r := range rows {
				table.Rows = append(table.Rows, []string{r.Path, r.Value})
			}
			b.WriteString("\n")
			b.WriteString(mdtable.Render(table))
		}

		if len(report.Extract.Unmatched) > 0 {
			b.WriteString("\n### Unmatched slots\n\n")
			for _, label := range report.Extract.Unmatched {
				fmt.Fprintf(&b, "- `%s`\n", label)
			}
		}
	}

	if report.Diff != nil {
		b.WriteString("\n## Changes\n")
		if !report.Diff.HasChanges {
			b.WriteString("\nNo changes.\n")
		} else {
			writeDiffSections(&b, report)
		}
	}

	return []byte(b.String()), nil
}

func writeDiffSections(b *strings.Builder, report Report) {
	d := report.Diff

	if len(d.Added) > 0 {
		table := mdtable.Table{Headers: []string{"Path", "Value"}}
		for _, r := range flattenChangeValues(d.Added) {
			table.Rows = append(table.Rows, []string{r.Path, r.Value})
		}
		b.WriteString("\n### Added\n\n")
		b.WriteString(mdtable.Render(table))
	}

	if len(d.Modified) > 0 {
		paths := make([]string, 0, len(d.Modified))
		for path := range d.Modified {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		table := mdtable.Table{Headers: []string{"Path", "From", "To"}}
		for _, path := range paths {
			change := d.Modified[path]
			table.Rows = append(table.Rows, []string{
				path,
				render.Stringify(change.From),
				render.Stringify(change.To),
			})
		}
		b.WriteString("\n### Modified\n\n")
		b.WriteString(mdtable.Render(table))
	}

	if len(d.Removed) > 0 {
		b.WriteString("\n### Removed\n\n")
		for _, path := range d.Removed {
			fmt.Fprintf(b, "- `%s`\n", path)
		}
	}
}

func flattenChangeValues(values map[string]any) []row {
	rows := make([]row, 0, len(values))
	for path, v := range values {
		rows = append(rows, row{Path: path, Value: render.Stringify(v)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows
}
