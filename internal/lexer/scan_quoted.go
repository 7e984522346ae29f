package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"srchash/internal/diag"
	"srchash/internal/token"
)

// scanQuoted captures from the opening quote up to the last matching quote on
// the same line. Escapes are not interpreted, so `"a\"b"` and `"a", "b"` are
// both one token. A quote with no partner on its line is reported and
// skipped as a one-byte Invalid token.
func (lx *Lexer) scanQuoted(q byte) token.Token {
	start := lx.cursor.Mark()
	lineEnd := lx.cursor.LineEnd()
	rest := lx.file.Content[lx.cursor.Off+1 : lineEnd]

	kind := token.StringLit
	if q == '\'' {
		kind = token.CharLit
	}

	last := bytes.LastIndexByte(rest, q)
	if last < 0 {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnterminatedLiteral, diag.SevWarning, sp,
			fmt.Sprintf("%s quote has no closing partner on this line", quoteName(q)))
		return lx.token(token.Invalid, start)
	}

	n, err := safecast.Conv[uint32](last)
	if err != nil {
		panic(fmt.Errorf("literal length overflow: %w", err))
	}
	lx.cursor.Off += n + 2
	return lx.token(kind, start)
}

func quoteName(q byte) string {
	if q == '\'' {
		return "single"
	}
	return "double"
}
