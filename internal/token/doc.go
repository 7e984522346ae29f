// Package token defines lexical token kinds for the srchash lexer.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Keywords are not a separate kind: "int", "return" and "foo" are all Ident.
//   - String and char literals keep their quotes in Text.
//   - Whitespace and newlines never appear as tokens; unrecognized bytes
//     appear as Invalid tokens that cover a coalesced run.
package token
