package token_test

import (
	"testing"

	"srchash/internal/source"
	"srchash/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.StringLit, token.CharLit, token.IntLit, token.NumberLit}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Directive, token.Invalid, token.EOF}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsNameLike(t *testing.T) {
	for _, k := range []token.Kind{token.Ident, token.StringLit, token.CharLit} {
		if !k.IsNameLike() {
			t.Fatalf("%v should be collected for substitution", k)
		}
	}
	for _, k := range []token.Kind{token.Directive, token.IntLit, token.NumberLit, token.Invalid, token.EOF} {
		if k.IsNameLike() {
			t.Fatalf("%v must not be collected for substitution", k)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.Directive.String(); got != "Directive" {
		t.Fatalf("Directive.String() = %q", got)
	}
	if got := token.Kind(200).String(); got != "Kind(?)" {
		t.Fatalf("out of range kind = %q", got)
	}
}
