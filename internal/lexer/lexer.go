package lexer

import (
	"iter"

	"srchash/internal/dialect"
	"srchash/internal/source"
	"srchash/internal/token"
)

type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	dialect dialect.Dialect
	look    *token.Token // 1 элементный буфер для токена

	line      uint32
	lineStart bool // only blanks seen since the last newline
}

func New(file *source.File, opts Options) *Lexer {
	d := opts.Dialect
	if d.Name == "" {
		d, _ = dialect.Lookup(dialect.Default)
	}
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		dialect:   d,
		line:      1,
		lineStart: true,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipBlanks()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Line: lx.line,
		}
	}

	ch := lx.cursor.Peek()
	line := lx.line
	atLineStart := lx.lineStart
	lx.lineStart = false

	var tok token.Token
	switch {
	case ch == lx.dialect.Marker && atLineStart:
		tok = lx.scanDirective()
	case ch == '"' || ch == '\'':
		tok = lx.scanQuoted(ch)
	case lx.dialect.IsIdentStart(ch):
		tok = lx.scanIdent()
	case lx.dialect.Numbers && lx.isNumberStart():
		tok = lx.scanNumber()
	default:
		tok = lx.scanUnrecognized()
	}
	tok.Line = line
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Line returns the current 1-based line.
func (lx *Lexer) Line() uint32 { return lx.line }

// skipBlanks consumes whitespace and newline runs, advancing the line counter.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\n':
			lx.cursor.Bump()
			lx.line++
			lx.lineStart = true
		case ' ', '\t', '\v', '\f', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) token(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Scan returns the token sequence of file, EOF excluded. Every iteration
// starts from the beginning of the file with a fresh lexer, so findings are
// reported again on each pass.
func Scan(file *source.File, opts Options) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx := New(file, opts)
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

// All drains a fresh lexer into a slice, EOF included.
func All(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}
