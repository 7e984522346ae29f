package classify

import "strings"

// Directive is one marker line as it will be emitted.
type Directive struct {
	Text string
	// Line is the 1-based line the directive starts on.
	Line uint32
}

// DirectiveSequence keeps directives in encounter order, duplicates included.
type DirectiveSequence []Directive

// Texts returns the squeezed directive texts in order.
func (ds DirectiveSequence) Texts() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Text
	}
	return out
}

// Squeeze collapses every run of spaces and tabs to a single space and
// drops trailing blanks on each line. Newlines of continued directives are
// kept.
func Squeeze(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	blank := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t':
			blank = true
			continue
		case '\n':
			blank = false
		default:
			if blank {
				b.WriteByte(' ')
			}
			blank = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
