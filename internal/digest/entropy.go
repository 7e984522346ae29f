package digest

import (
	"crypto/rand"
	"io"
	"os"
	"strings"
)

// Source hands out a reader for one salt draw. Open is called once per
// identifier and the returned reader is closed right after the draw.
type Source interface {
	Open() (io.ReadCloser, error)
	String() string
}

// SystemSource draws from the operating system CSPRNG.
type SystemSource struct{}

func (SystemSource) Open() (io.ReadCloser, error) { return io.NopCloser(rand.Reader), nil }
func (SystemSource) String() string               { return "system" }

// DeviceSource opens a character device (or any file) for every draw,
// e.g. /dev/random.
type DeviceSource struct {
	Path string
}

func (d DeviceSource) Open() (io.ReadCloser, error) {
	// #nosec G304 -- the device path is operator configuration
	return os.Open(d.Path)
}

func (d DeviceSource) String() string { return d.Path }

// ReaderSource draws sequentially from a shared reader. Intended for tests
// and for reproducible runs with a fixed byte stream.
type ReaderSource struct {
	R    io.Reader
	Name string
}

func (r ReaderSource) Open() (io.ReadCloser, error) { return io.NopCloser(r.R), nil }

func (r ReaderSource) String() string {
	if r.Name != "" {
		return r.Name
	}
	return "reader"
}

// ParseSource maps configuration text to a Source: "" and "system" select
// the CSPRNG, anything else is a device path.
func ParseSource(s string) Source {
	switch strings.TrimSpace(s) {
	case "", "system":
		return SystemSource{}
	default:
		return DeviceSource{Path: strings.TrimSpace(s)}
	}
}
