package lexer

import (
	"srchash/internal/dialect"
	"srchash/internal/diag"
	"srchash/internal/source"
)

type Options struct {
	// Reporter receives lexical findings. nil means they are dropped and
	// lexing continues.
	Reporter diag.Reporter
	// Dialect selects the token grammar. The zero value falls back to
	// dialect.Default.
	Dialect dialect.Dialect
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}
