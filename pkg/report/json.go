package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-untemplate/pkg/diff"
)

// JSON renders reports as an indented JSON envelope for machine consumers.
type JSON struct{}

// NewJSON constructs the JSON renderer.
func NewJSON() *JSON { return &JSON{} }

var _ Renderer = (*JSON)(nil)

// Name identifies the renderer inside the registry.
func (*JSON) Name() string { return "json" }

// ContentType returns the MIME type for generated documents.
func (*JSON) ContentType() string { return "application/json" }

type jsonEnvelope struct {
	Title     string       `json:"title"`
	Generated *time.Time   `json:"generated,omitempty"`
	Template  string       `json:"template,omitempty"`
	Extract   *jsonExtract `json:"extract,omitempty"`
	Diff      *diff.Result `json:"diff,omitempty"`
}

type jsonExtract struct {
	Data       map[string]any `json:"data"`
	Confidence float64        `json:"confidence"`
	Unmatched  []string       `json:"unmatched,omitempty"`
}

// Render produces the JSON report.
func (*JSON) Render(_ context.Context, report Report, opts Options) ([]byte, error) {
	envelope := jsonEnvelope{
		Title:    titleOf(opts),
		Template: report.Template,
		Diff:     report.Diff,
	}
	if !report.Generated.IsZero() {
		generated := report.Generated.UTC()
		envelope.Generated = &generated
	}
	if report.Extract != nil {
		envelope.Extract = &jsonExtract{
			Data:       report.Extract.Data,
			Confidence: report.Extract.Confidence,
			Unmatched:  report.Extract.Unmatched,
		}
	}

	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal json report: %w", err)
	}
	return append(payload, '\n'), nil
}
