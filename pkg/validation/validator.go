// Package validation inspects a template before anything is extracted from
// it: which slots deterministic matching can recover, which ones need AI
// assistance, and which structural hazards put captures at risk.
package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-untemplate/pkg/slot"
)

// Report summarizes a template's extraction prospects.
type Report struct {
	// Valid reports a hazard-free template. Extraction can still run on an
	// invalid one, but at least one slot is at risk of a wrong or missing
	// capture.
	Valid bool
	// Extractable lists the slots deterministic matching can recover, in
	// template order.
	Extractable []string
	// NeedsAI lists the slots whose values cannot be recovered by matching
	// alone: conditionals and loops.
	NeedsAI []string
	// Warnings describes each structural hazard found.
	Warnings []string
	// Slots is the full parsed slot list.
	Slots []slot.Slot
}

// ValidateTemplate parses template and classifies every slot. It never
// fails: malformed slot syntax stays literal text and simply does not show
// up in the report.
func ValidateTemplate(template string) Report {
	report := Report{Slots: slot.Parse(template)}

	for _, s := range report.Slots {
		switch s.Type {
		case slot.TypeConditional, slot.TypeLoop:
			report.NeedsAI = append(report.NeedsAI, s.Label())
		default:
			report.Extractable = append(report.Extractable, s.Label())
		}
		if s.Type == slot.TypeComponent && len(s.ComponentProps) == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("component %q binds no props", s.ComponentName))
		}
	}

	report.Warnings = append(report.Warnings, separatorWarnings(template)...)
	report.Warnings = append(report.Warnings, duplicateWarnings(report.Slots)...)
	report.Valid = len(report.Warnings) == 0
	return report
}

// separatorWarnings flags slot pairs whose separating literal is too weak to
// anchor on: nothing at all, or bare whitespace.
func separatorWarnings(template string) []string {
	var warnings []string
	segments := slot.Split(template)

	var prev *slot.Slot
	sep := ""
	sepSeen := false
	for _, segment := range segments {
		if segment.Slot == nil {
			sep = segment.Text
			sepSeen = true
			continue
		}
		if prev != nil {
			switch {
			case !sepSeen:
				warnings = append(warnings, fmt.Sprintf(
					"slots %q and %q are adjacent with no separator; only the first can be matched",
					prev.Label(), segment.Slot.Label()))
			case strings.TrimSpace(sep) == "" && !strings.Contains(sep, "\n"):
				// A line or paragraph break is a workable boundary; bare
				// spaces between two captures are not.
				warnings = append(warnings, fmt.Sprintf(
					"slots %q and %q are separated only by spaces; captures containing one split early",
					prev.Label(), segment.Slot.Label()))
			}
		}
		prev = segment.Slot
		sep = ""
		sepSeen = false
	}
	return warnings
}

// duplicateWarnings flags paths bound by more than one slot, where the last
// capture silently wins.
func duplicateWarnings(slots []slot.Slot) []string {
	seen := map[string]int{}
	for _, s := range slots {
		if s.Type == slot.TypeComponent {
			continue
		}
		seen[s.Path]++
	}

	var warnings []string
	reported := map[string]bool{}
	for _, s := range slots {
		if s.Type == slot.TypeComponent || seen[s.Path] < 2 || reported[s.Path] {
			continue
		}
		reported[s.Path] = true
		warnings = append(warnings, fmt.Sprintf("path %q is bound by %d slots; the last capture wins", s.Path, seen[s.Path]))
	}
	return warnings
}
