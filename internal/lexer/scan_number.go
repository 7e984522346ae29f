package lexer

import (
	"srchash/internal/token"
)

// Числа сканируются как pp-number из C: цифра (или '.' и цифра), затем
// буквы, цифры, '_', '.' и знак после экспоненты e/E/p/P.
// Plain decimal integers with an optional u/U/l/L suffix become IntLit and
// are eligible for the hex rewrite; every other form is NumberLit.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isDec(b) || b == '.' || b == '_' || isAlpha(b):
			lx.cursor.Bump()
			if (b == 'e' || b == 'E' || b == 'p' || b == 'P') && isSign(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		case b == '\'' && isDec(lx.cursor.PeekAt(1)):
			// C++14 digit separator
			lx.cursor.Bump()
		default:
			return lx.numberToken(start)
		}
	}
	return lx.numberToken(start)
}

func (lx *Lexer) numberToken(start Mark) token.Token {
	tok := lx.token(token.NumberLit, start)
	if IsPlainDecimal(tok.Text) {
		tok.Kind = token.IntLit
	}
	return tok
}

// IsPlainDecimal reports whether s is a run of decimal digits followed by
// an optional integer suffix made of u/U/l/L.
func IsPlainDecimal(s string) bool {
	i := 0
	for i < len(s) && isDec(s[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	for ; i < len(s); i++ {
		switch s[i] {
		case 'u', 'U', 'l', 'L':
		default:
			return false
		}
	}
	return true
}

// Проверка для кейса ".5": текущая точка, дальше цифра?
func (lx *Lexer) isNumberStart() bool {
	b := lx.cursor.Peek()
	return isDec(b) || (b == '.' && isDec(lx.cursor.PeekAt(1)))
}
