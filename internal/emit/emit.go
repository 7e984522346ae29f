// Package emit writes the final artifact: the directive block, the
// alias-definition block and the substituted body, in that order.
package emit

import (
	"bufio"
	"fmt"
	"io"

	"srchash/internal/alias"
	"srchash/internal/classify"
	"srchash/internal/source"
)

// DefineKeyword follows the marker on every alias-definition line.
const DefineKeyword = "define"

// Input is everything the emitter writes.
type Input struct {
	Directives classify.DirectiveSequence
	Aliases    *alias.Map
	Body       []byte
	// Marker starts every alias-definition line.
	Marker byte
	// Encoding re-encodes the output when the source was decoded from a
	// legacy charset. The zero value writes UTF-8.
	Encoding source.Encoding
}

// Write emits in to w and returns the number of bytes handed to the encoder.
func Write(w io.Writer, in Input) (int64, error) {
	enc := in.Encoding.NewWriter(w)
	cw := &countingWriter{w: enc}
	bw := bufio.NewWriter(cw)

	for _, d := range in.Directives {
		if _, err := bw.WriteString(d.Text); err != nil {
			return cw.n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return cw.n, err
		}
	}
	if in.Aliases != nil {
		for _, e := range in.Aliases.Entries() {
			if _, err := fmt.Fprintf(bw, "%c%s %s %s\n", in.Marker, DefineKeyword, in.Aliases.Token(e), e.Identifier); err != nil {
				return cw.n, err
			}
		}
	}
	if _, err := bw.Write(in.Body); err != nil {
		return cw.n, err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	if err := enc.Close(); err != nil {
		return cw.n, fmt.Errorf("encode output as %s: %w", in.Encoding, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
