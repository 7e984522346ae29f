package classify

import (
	"fmt"
	"slices"

	"srchash/internal/source"
)

// TextEdit replaces the bytes under Span with NewText. OldText, when set,
// must match the current content.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// ApplyEdits returns a copy of content with edits applied. Edits must not
// overlap; they are applied from the end of the buffer backwards so earlier
// offsets stay valid.
func ApplyEdits(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return slices.Clone(content), nil
	}
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		if a.Span.Start != b.Span.Start {
			if a.Span.Start > b.Span.Start {
				return -1
			}
			return 1
		}
		return 0
	})

	working := slices.Clone(content)
	limit := len(working) + 1
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if end < start || end > len(working) || end > limit {
			return nil, fmt.Errorf("edit %s out of range or overlapping", e.Span)
		}
		if e.OldText != "" && string(working[start:end]) != e.OldText {
			return nil, fmt.Errorf("edit %s: expected %q, found %q", e.Span, e.OldText, working[start:end])
		}
		working = slices.Concat(working[:start], []byte(e.NewText), working[end:])
		limit = start
	}
	return working, nil
}
