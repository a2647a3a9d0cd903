package extract

import (
	"strings"

	"github.com/goliatone/go-untemplate/pkg/slot"
)

// The matcher never compiles the template into one composite regular
// expression. Literal segments become anchors located with strings.Index
// from a forward-moving cursor, and each slot captures the span between its
// surrounding anchors. The scan is linear in the rendered text, so
// pathological templates cannot trigger backtracking blowups.

// piece is one step of the match plan: either a literal anchor or a run of
// slots separated by nothing but whitespace.
type piece struct {
	anchor string
	header bool
	run    []boundSlot
}

// boundSlot is a slot plus the raw whitespace separator between it and the
// previous slot of the same run.
type boundSlot struct {
	slot slot.Slot
	sep  string
}

// outcome records what the matcher decided for one slot, in template order.
type outcome struct {
	slot     slot.Slot
	captured string
	matched  bool
}

// buildPieces folds the alternating segment view into the match plan.
// Whitespace-only literals carry no anchoring power; they become in-run
// separators instead.
func buildPieces(segments []slot.Segment) []piece {
	var pieces []piece
	var run []boundSlot
	pendingSep := ""

	flushRun := func() {
		if len(run) > 0 {
			pieces = append(pieces, piece{run: run})
			run = nil
		}
		pendingSep = ""
	}

	for _, segment := range segments {
		if segment.Slot != nil {
			run = append(run, boundSlot{slot: *segment.Slot, sep: pendingSep})
			pendingSep = ""
			continue
		}
		trimmed := strings.TrimSpace(segment.Text)
		if trimmed == "" {
			if len(run) > 0 {
				pendingSep = segment.Text
			}
			continue
		}
		flushRun()
		pieces = append(pieces, piece{anchor: trimmed, header: strings.HasPrefix(trimmed, "#")})
	}
	flushRun()
	return pieces
}

// match walks the plan against the rendered text. A missing anchor marks the
// slots it bounds as unmatched without stopping the walk; the cursor stays
// put so the next locatable anchor resynchronizes the scan.
func match(rendered string, pieces []piece) []outcome {
	var outcomes []outcome
	cursor := 0
	prevFound := true

	for i, p := range pieces {
		if p.anchor != "" {
			pos := findAnchor(rendered, p.anchor, cursor, p.header)
			if pos < 0 {
				prevFound = false
				continue
			}
			cursor = pos + len(p.anchor)
			prevFound = true
			continue
		}

		region := ""
		regionOK := false
		if i+1 < len(pieces) {
			next := pieces[i+1]
			if pos := findAnchor(rendered, next.anchor, cursor, next.header); prevFound && pos >= 0 {
				region = rendered[cursor:pos]
				regionOK = true
			}
		} else if prevFound {
			region = rendered[cursor:]
			regionOK = true
		}

		if !regionOK {
			for _, rs := range p.run {
				outcomes = append(outcomes, outcome{slot: rs.slot})
			}
			continue
		}
		outcomes = append(outcomes, splitRun(region, p.run)...)
	}
	return outcomes
}

// findAnchor locates anchor at or after from. Markdown headers only count at
// the start of a line, which keeps "# Title" from matching a "#" buried in
// prose.
func findAnchor(rendered, anchor string, from int, header bool) int {
	if from > len(rendered) {
		return -1
	}
	offset := from
	for {
		idx := strings.Index(rendered[offset:], anchor)
		if idx < 0 {
			return -1
		}
		pos := offset + idx
		if !header || pos == 0 || rendered[pos-1] == '\n' {
			return pos
		}
		offset = pos + 1
	}
}

// splitRun distributes a captured region across the slots of a run. The
// separator between two slots is searched literally first and as any
// whitespace gap second, always taking the earliest cut so captures stay as
// short as possible. Adjacent slots with no separator at all cannot be told
// apart, so the first slot takes the region and the rest report unmatched.
func splitRun(region string, run []boundSlot) []outcome {
	outcomes := make([]outcome, 0, len(run))
	remaining := region

	for j, rs := range run {
		var captured string
		if j == len(run)-1 {
			captured = remaining
			remaining = ""
		} else if sep := run[j+1].sep; sep == "" {
			captured = remaining
			remaining = ""
		} else {
			head, tail, ok := cutSeparator(remaining, sep)
			if ok {
				captured = head
				remaining = tail
			} else {
				captured = remaining
				remaining = ""
			}
		}

		captured = strings.TrimSpace(captured)
		outcomes = append(outcomes, outcome{
			slot:     rs.slot,
			captured: captured,
			matched:  captured != "",
		})
	}
	return outcomes
}

// cutSeparator cuts region at the first occurrence of sep that leaves a
// non-empty head. When the literal separator is absent (the rendered text
// collapsed a blank line, say) the first whitespace run serves instead.
func cutSeparator(region, sep string) (string, string, bool) {
	start := 0
	for start < len(region) && isSpace(region[start]) {
		start++
	}
	start++
	if start > len(region) {
		return region, "", false
	}

	if idx := strings.Index(region[start:], sep); idx >= 0 {
		pos := start + idx
		return region[:pos], region[pos+len(sep):], true
	}

	runStart, runEnd := firstSpaceRun(region, start)
	if runStart < 0 {
		return region, "", false
	}
	return region[:runStart], region[runEnd:], true
}

// firstSpaceRun returns the bounds of the first whitespace run at or after
// from, or -1 when none remains.
func firstSpaceRun(region string, from int) (int, int) {
	i := from
	for i < len(region) && !isSpace(region[i]) {
		i++
	}
	if i >= len(region) {
		return -1, -1
	}
	j := i
	for j < len(region) && isSpace(region[j]) {
		j++
	}
	return i, j
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
