package lexer

import (
	"fmt"

	"srchash/internal/diag"
	"srchash/internal/token"
)

// scanUnrecognized coalesces a run of bytes that start no rule into one
// Invalid token and reports it. The run stops at whitespace or at the first
// byte that begins another token.
func (lx *Lexer) scanUnrecognized() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && !lx.startsToken() {
		lx.cursor.Bump()
	}
	tok := lx.token(token.Invalid, start)
	lx.report(diag.LexUnrecognized, diag.SevInfo, tok.Span, fmt.Sprintf("skipped %q", tok.Text))
	return tok
}

func (lx *Lexer) startsToken() bool {
	b := lx.cursor.Peek()
	switch {
	case isBlank(b) || b == '\n':
		return true
	case b == '"' || b == '\'':
		return true
	case lx.dialect.IsIdentStart(b):
		return true
	case lx.dialect.Numbers && lx.isNumberStart():
		return true
	}
	return false
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSign(b byte) bool { return b == '+' || b == '-' }
