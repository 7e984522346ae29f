// Package testkit holds invariant checks shared by tests and fuzz targets.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"srchash/internal/dialect"
	"srchash/internal/source"
	"srchash/internal/token"
)

// CheckTokenInvariants runs the invariants every lexed stream must hold:
// 1) every token but EOF has a non-empty span inside the file
// 2) Text is exactly the source slice under Span
// 3) spans are ordered and never overlap
// 4) directives start with the dialect marker
// 5) the stream ends with exactly one EOF
func CheckTokenInvariants(f *source.File, toks []token.Token, d dialect.Dialect) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(toks) == 0 || !toks[len(toks)-1].Kind.IsEOF() {
		return fmt.Errorf("stream does not end with EOF")
	}

	var prev uint32
	for i, tok := range toks[:len(toks)-1] {
		// 1) span sanity
		if tok.Kind.IsEOF() {
			return fmt.Errorf("token %d: EOF before the end of the stream", i)
		}
		if tok.Span.File != f.ID {
			return fmt.Errorf("token %d: span points to different file id: got=%d want=%d", i, tok.Span.File, f.ID)
		}
		if tok.Span.Empty() {
			return fmt.Errorf("token %d: empty %v span %v", i, tok.Kind, tok.Span)
		}
		if tok.Span.End > lenContent {
			return fmt.Errorf("token %d: span end beyond content: %d > %d", i, tok.Span.End, lenContent)
		}

		// 2) text matches the source
		if got := tok.Span.Text(f); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match source %q", i, tok.Text, got)
		}

		// 3) order
		if tok.Span.Start < prev {
			return fmt.Errorf("token %d: starts at %d before previous end %d", i, tok.Span.Start, prev)
		}
		prev = tok.Span.End

		// 4) directives
		if tok.Kind == token.Directive && tok.Text[0] != d.Marker {
			return fmt.Errorf("token %d: directive does not start with %q: %q", i, d.Marker, tok.Text)
		}
	}
	return nil
}
