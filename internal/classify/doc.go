// Package classify splits a token stream into the structures the rest of the
// pipeline works on: the IdentifierSet (names and quoted literals in
// first-seen order), the DirectiveSequence (whitespace-squeezed marker lines
// in encounter order) and the body with plain decimal integers rewritten to
// hexadecimal.
package classify
