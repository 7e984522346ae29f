package token

import (
	"srchash/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Line uint32 // 1-based line the token starts on
}

// IsLiteral reports whether the token is a string, char or numeric literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case StringLit, CharLit, IntLit, NumberLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
