// Package dialect is the closed registry of C-family token grammars.
//
// A Dialect tells the lexer which byte opens a directive line, whether '$'
// is a name character, whether directives continue over trailing
// backslashes and whether numeric literals are tokenized for hex rewriting.
package dialect
