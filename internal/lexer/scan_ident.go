package lexer

import "srchash/internal/token"

// scanIdent consumes a name. Keywords are not special: "int" is an Ident.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.dialect.IsIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.token(token.Ident, start)
}
