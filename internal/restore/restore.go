// Package restore re-expands an emitted artifact: it reads the alias
// definitions back and substitutes every alias token in the body with the
// identifier it stands for.
package restore

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"

	"srchash/internal/alias"
	"srchash/internal/dialect"
	"srchash/internal/emit"
)

type Options struct {
	Dialect dialect.Dialect
	// Prefix the alias tokens were emitted with. Empty means alias.DefaultPrefix.
	Prefix string
	// Aliases, when set, is used instead of the artifact's alias block.
	Aliases *alias.Map
}

// Artifact is an emitted file split into its three blocks.
type Artifact struct {
	// Directives are the header entries before the alias block, one per
	// directive; continued directives keep their newlines.
	Directives []string
	Aliases    *alias.Map
	Body       []byte
}

// Parse splits content into directives, alias definitions and body. The
// header is every leading marker line (plus continuations). The alias block
// is found at its end, see aliasBlock.
func Parse(content []byte, opts Options) (*Artifact, error) {
	d := opts.Dialect
	if d.Name == "" {
		d = dialect.ForPath("")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = alias.DefaultPrefix
	}

	header, body := splitHeader(content, d)

	defRe := regexp.MustCompile(`^` + regexp.QuoteMeta(string(d.Marker)) + emit.DefineKeyword + ` ` +
		regexp.QuoteMeta(prefix) + `([0-9a-f]+) (.+)$`)

	defs := aliasBlock(header, defRe, prefix, opts.Aliases)
	split := len(header) - len(defs)

	m := alias.NewMap(prefix)
	for _, def := range defs {
		if err := m.Add(def.Identifier, def.Digest); err != nil {
			return nil, fmt.Errorf("alias block: %w", err)
		}
	}
	return &Artifact{Directives: header[:split], Aliases: m, Body: body}, nil
}

// aliasBlock returns the definitions that close header, in header order.
//
// With a supplied map the block is at most known.Len() lines, each of which
// must resolve through known. Without one it grows backwards from the last
// line and stops before a line that could not have come from the same run:
// a different digest length, or a name clash with a later definition.
// Source directives of the same shape stay directives.
func aliasBlock(header []string, defRe *regexp.Regexp, prefix string, known *alias.Map) []alias.Entry {
	var rev []alias.Entry
	seen := alias.NewMap(prefix)
	for i := len(header) - 1; i >= 0; i-- {
		sub := defRe.FindStringSubmatch(header[i])
		if sub == nil {
			break
		}
		e := alias.Entry{Identifier: sub[2], Digest: sub[1]}
		if known != nil {
			if len(rev) == known.Len() {
				break
			}
			if ident, ok := known.Resolve(known.Token(e)); !ok || ident != e.Identifier {
				break
			}
		} else if len(rev) > 0 && len(e.Digest) != len(rev[0].Digest) {
			break
		}
		if seen.Add(e.Identifier, e.Digest) != nil {
			break
		}
		rev = append(rev, e)
	}
	slices.Reverse(rev)
	return rev
}

// splitHeader returns the leading marker lines and the rest of content.
func splitHeader(content []byte, d dialect.Dialect) ([]string, []byte) {
	var header []string
	rest := content
	for len(rest) > 0 {
		line, after, _ := bytes.Cut(rest, []byte{'\n'})
		t := bytes.TrimLeft(line, " \t\v\f")
		if len(t) == 0 || t[0] != d.Marker {
			break
		}
		entry := string(line)
		rest = after
		for d.Continuations && bytes.HasSuffix(bytes.TrimRight(line, " \t\r"), []byte{'\\'}) && len(rest) > 0 {
			line, rest, _ = bytes.Cut(rest, []byte{'\n'})
			entry += "\n" + string(line)
		}
		header = append(header, entry)
	}
	return header, rest
}

// Expand replaces every name run in body that is an alias token of m with
// its identifier. It is a single left-to-right pass, so restored text is
// never rescanned.
func Expand(body []byte, m *alias.Map, d dialect.Dialect) ([]byte, int) {
	out := make([]byte, 0, len(body))
	n := 0
	for i := 0; i < len(body); {
		if !d.IsIdentContinue(body[i]) {
			out = append(out, body[i])
			i++
			continue
		}
		j := i
		for j < len(body) && d.IsIdentContinue(body[j]) {
			j++
		}
		word := body[i:j]
		if ident, ok := m.Resolve(string(word)); ok {
			out = append(out, ident...)
			n++
		} else {
			out = append(out, word...)
		}
		i = j
	}
	return out, n
}

// Result is a restored artifact.
type Result struct {
	Artifact *Artifact
	// Text is the directive block followed by the expanded body.
	Text         []byte
	Replacements int
}

// Restore parses content and re-expands its body. An artifact without
// aliases comes back unchanged.
func Restore(content []byte, opts Options) (*Result, error) {
	art, err := Parse(content, opts)
	if err != nil {
		return nil, err
	}
	m := art.Aliases
	if opts.Aliases != nil {
		m = opts.Aliases
	}
	d := opts.Dialect
	if d.Name == "" {
		d = dialect.ForPath("")
	}

	body, n := Expand(art.Body, m, d)
	var buf bytes.Buffer
	buf.Grow(len(body) + 64*len(art.Directives))
	for _, dir := range art.Directives {
		buf.WriteString(dir)
		buf.WriteByte('\n')
	}
	buf.Write(body)
	return &Result{Artifact: art, Text: buf.Bytes(), Replacements: n}, nil
}
