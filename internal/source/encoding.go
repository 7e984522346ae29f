package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned when source bytes are not valid in the
// requested encoding.
var ErrInvalidEncoding = errors.New("invalid source encoding")

// Encoding names the text encoding a file was stored in.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingLatin1
	EncodingWindows1252
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingLatin1:
		return "latin1"
	case EncodingWindows1252:
		return "windows-1252"
	default:
		return "unknown"
	}
}

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252", "win1252":
		return EncodingWindows1252, nil
	default:
		return EncodingUTF8, fmt.Errorf("unsupported encoding %q (expected utf-8|latin1|windows-1252)", s)
	}
}

func (e Encoding) charmap() encoding.Encoding {
	switch e {
	case EncodingLatin1:
		return charmap.ISO8859_1
	case EncodingWindows1252:
		return charmap.Windows1252
	default:
		return nil
	}
}

// Decode converts raw bytes in encoding e into UTF-8.
// UTF-8 input is validated, not copied.
func (e Encoding) Decode(raw []byte) ([]byte, error) {
	cm := e.charmap()
	if cm == nil {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: not valid utf-8", ErrInvalidEncoding)
		}
		return raw, nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), cm.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEncoding, e, err)
	}
	return out, nil
}

// NewWriter wraps w so that UTF-8 written to it is stored in encoding e.
// The returned closer must be closed to flush the transformer; it does not close w.
func (e Encoding) NewWriter(w io.Writer) io.WriteCloser {
	cm := e.charmap()
	if cm == nil {
		return nopWriteCloser{w}
	}
	return transform.NewWriter(w, cm.NewEncoder())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
