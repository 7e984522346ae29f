// Package diag defines the diagnostic model shared by the lexer, the
// classifier and the driver.
//
// A Diagnostic carries a Severity, a stable Code (LEX/RW/IO families, see
// codes.go), a short message, a primary source.Span and optional notes.
// Producers emit through a Reporter; BagReporter stores into a Bag which the
// driver returns with every run result. Lexer gaps are never fatal: they are
// reported as info diagnostics and counted.
//
// Package diag does no IO and no coloring. Rendering lives in internal/diagfmt;
// FormatGoldenDiagnostics here produces the one-line-per-entry form used by
// tests and by the short CLI output.
package diag
