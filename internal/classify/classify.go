package classify

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"srchash/internal/diag"
	"srchash/internal/source"
	"srchash/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

// Result is the classifier output for one source file.
type Result struct {
	Identifiers *IdentifierSet
	Directives  DirectiveSequence
	// Body is the file content with numeric rewrites applied.
	Body []byte
	// Rewrites counts integer literals rewritten to hex.
	Rewrites int
}

// Classify consumes toks once, in order. Identifiers, string literals and
// char literals are collected, directives are squeezed and recorded, and
// plain decimal integers are rewritten in the returned body. Invalid tokens
// are ignored.
func Classify(ctx context.Context, file *source.File, toks iter.Seq[token.Token], opts Options) (*Result, error) {
	res := &Result{Identifiers: NewIdentifierSet()}
	var edits []TextEdit

	n := 0
	for tok := range toks {
		n++
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		switch {
		case tok.Kind.IsNameLike():
			res.Identifiers.Add(tok.Text)
		case tok.Kind == token.Directive:
			res.Directives = append(res.Directives, Directive{Text: Squeeze(tok.Text), Line: tok.Line})
		case tok.Kind == token.IntLit:
			hex, err := HexLiteral(tok.Text)
			if err != nil {
				reportNumber(opts.Reporter, tok, err)
				continue
			}
			edits = append(edits, TextEdit{Span: tok.Span, NewText: hex, OldText: tok.Text})
		}
	}

	body, err := ApplyEdits(file.Content, edits)
	if err != nil {
		return nil, fmt.Errorf("rewrite numbers: %w", err)
	}
	res.Body = body
	res.Rewrites = len(edits)

	if res.Identifiers.Len() == 0 && opts.Reporter != nil {
		opts.Reporter.Report(diag.RwNoIdentifiers, diag.SevInfo,
			source.Span{File: file.ID}, "no identifiers to substitute", nil)
	}
	return res, nil
}

func reportNumber(r diag.Reporter, tok token.Token, err error) {
	if r == nil {
		return
	}
	code := diag.RwNumberKeptAsIs
	if errors.Is(err, errNumberRange) {
		code = diag.RwNumberOutOfRange
	}
	r.Report(code, diag.SevWarning, tok.Span, fmt.Sprintf("%s left unchanged: %v", tok.Text, err), nil)
}
