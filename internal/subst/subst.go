// Package subst turns the classified body into the substituted body: marker
// lines are stripped, then every whole-word occurrence of each identifier is
// replaced by its alias token.
package subst

import (
	"bytes"
	"context"
	"fmt"

	"srchash/internal/alias"
	"srchash/internal/dialect"
)

// Stats describes one substitution pass.
type Stats struct {
	StrippedLines int
	Replacements  int
}

// StripDirectives removes every line whose first non-blank byte is the
// dialect marker, together with its backslash continuation lines when the
// dialect has them. Lexer recognition plays no part: a marker line the lexer
// saw as part of something else is removed all the same.
func StripDirectives(body []byte, d dialect.Dialect) ([]byte, int) {
	out := make([]byte, 0, len(body))
	stripped := 0
	continuing := false
	for len(body) > 0 {
		line, rest, hasNL := cutLine(body)
		body = rest

		if continuing || isMarkerLine(line, d.Marker) {
			stripped++
			continuing = d.Continuations && endsWithBackslash(line)
			continue
		}
		out = append(out, line...)
		if hasNL {
			out = append(out, '\n')
		}
	}
	return out, stripped
}

func cutLine(b []byte) (line, rest []byte, hasNL bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

func isMarkerLine(line []byte, marker byte) bool {
	t := bytes.TrimLeft(line, " \t\v\f")
	return len(t) > 0 && t[0] == marker
}

func endsWithBackslash(line []byte) bool {
	t := bytes.TrimRight(line, " \t\r")
	return len(t) > 0 && t[len(t)-1] == '\\'
}

// Substitute strips marker lines from body and replaces identifiers in
// order. order must be the substitution order (longest first) and every
// entry must be present in m.
func Substitute(ctx context.Context, body []byte, order []string, m *alias.Map, d dialect.Dialect) ([]byte, Stats, error) {
	work, stripped := StripDirectives(body, d)
	st := Stats{StrippedLines: stripped}
	for _, ident := range order {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		tok, ok := m.Alias(ident)
		if !ok {
			return nil, st, fmt.Errorf("identifier %q has no alias", ident)
		}
		var n int
		work, n = ReplaceWord(work, ident, tok, d)
		st.Replacements += n
	}
	return work, st, nil
}

// ReplaceWord replaces every whole-word occurrence of word in b. An
// occurrence is whole when the bytes on either side are not name bytes of
// the dialect. Matching is exact and case-sensitive.
func ReplaceWord(b []byte, word, repl string, d dialect.Dialect) ([]byte, int) {
	if word == "" {
		return b, 0
	}
	w := []byte(word)
	var out []byte
	last, n := 0, 0
	for i := 0; i <= len(b)-len(w); {
		j := bytes.Index(b[i:], w)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(w)
		if isBoundary(b, start-1, d) && isBoundary(b, end, d) {
			if out == nil {
				out = make([]byte, 0, len(b))
			}
			out = append(out, b[last:start]...)
			out = append(out, repl...)
			last = end
			n++
			i = end
			continue
		}
		i = start + 1
	}
	if n == 0 {
		return b, 0
	}
	return append(out, b[last:]...), n
}

func isBoundary(b []byte, i int, d dialect.Dialect) bool {
	if i < 0 || i >= len(b) {
		return true
	}
	return !d.IsIdentContinue(b[i])
}
