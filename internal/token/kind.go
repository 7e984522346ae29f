package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks an unrecognized span; the lexer reports it and moves on.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents a name: letters, digits, '_' and (per dialect) '$'.
	// Keywords are idents too.
	Ident
	// Directive is a whole preprocessor line, marker included.
	Directive
	// StringLit is a double-quoted span, quotes included.
	StringLit
	// CharLit is a single-quoted span, quotes included.
	CharLit
	// IntLit is a plain decimal integer, optionally with an integer suffix.
	IntLit
	// NumberLit is any other numeric literal (hex, float, exponent forms).
	NumberLit
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	Directive: "Directive",
	StringLit: "StringLit",
	CharLit:   "CharLit",
	IntLit:    "IntLit",
	NumberLit: "NumberLit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsEOF reports whether k terminates the stream.
func (k Kind) IsEOF() bool { return k == EOF }

// IsNameLike reports whether tokens of kind k are collected for substitution.
// String and char literals count: their full text is aliased like a name.
func (k Kind) IsNameLike() bool {
	switch k {
	case Ident, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsNumber reports whether k is a numeric literal.
func (k Kind) IsNumber() bool { return k == IntLit || k == NumberLit }
