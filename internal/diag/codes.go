package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnrecognized          Code = 1001
	LexUnterminatedLiteral   Code = 1002
	LexUnterminatedDirective Code = 1004

	// Classification / rewriting
	RwNumberOutOfRange Code = 2001
	RwNumberKeptAsIs   Code = 2002
	RwNoIdentifiers    Code = 2004
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexUnrecognized:          "Unrecognized input skipped",
	LexUnterminatedLiteral:   "Quote without a partner on the same line",
	LexUnterminatedDirective: "Directive continuation runs to end of file",
	RwNumberOutOfRange:       "Numeric literal too large for hex rewrite",
	RwNumberKeptAsIs:         "Numeric literal left unchanged",
	RwNoIdentifiers:          "No identifiers found",
}

// ID returns the stable textual form of the code, e.g. LEX1001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RW%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
