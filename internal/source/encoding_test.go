package source

import (
	"bytes"
	"testing"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingUTF8, false},
		{"UTF-8", EncodingUTF8, false},
		{"iso-8859-1", EncodingLatin1, false},
		{"cp1252", EncodingWindows1252, false},
		{"ebcdic", EncodingUTF8, true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseEncoding(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEncodingWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := EncodingWindows1252.NewWriter(&buf)
	if _, err := w.Write([]byte("€uro")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte("\x80uro")) {
		t.Fatalf("encoded = %q", got)
	}

	back, err := EncodingWindows1252.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(back) != "€uro" {
		t.Fatalf("decoded = %q", back)
	}
}
