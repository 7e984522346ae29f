package lexer

import (
	"srchash/internal/diag"
	"srchash/internal/token"
)

// scanDirective captures a marker line to its end. With continuations
// enabled a trailing '\' pulls in the next line as well; the newline stays
// inside the token text.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	for {
		end := lx.cursor.LineEnd()
		lx.cursor.Off = end
		if !lx.dialect.Continuations || !lx.continued(start, end) {
			break
		}
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedDirective, diag.SevWarning, lx.cursor.SpanFrom(start),
				"line continuation at end of file")
			break
		}
		lx.cursor.Bump() // '\n'
		lx.line++
	}
	return lx.token(token.Directive, start)
}

// continued reports whether the line ending at end carries a trailing
// backslash (trailing blanks allowed, as compilers accept them).
func (lx *Lexer) continued(start Mark, end uint32) bool {
	content := lx.file.Content
	i := end
	for i > uint32(start) && (content[i-1] == ' ' || content[i-1] == '\t' || content[i-1] == '\r') {
		i--
	}
	return i > uint32(start) && content[i-1] == '\\'
}
