package extract

import (
	"fmt"
	"strings"
)

// Error reports a strict-mode extraction that left slots unmatched. It
// carries the unmatched labels and the full matcher debug state so callers
// can decide whether to retry, relax, or hand the input to an AI provider.
type Error struct {
	Unmatched []string
	Debug     Debug
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %d unmatched slot(s): %s", len(e.Unmatched), strings.Join(e.Unmatched, ", "))
}
