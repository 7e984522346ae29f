package digest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEntropy              = errors.New("entropy source failure")
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
	ErrInvalidSize          = errors.New("invalid size")
)

// EntropyError reports an entropy source that could not be opened or that
// returned fewer bytes than requested.
type EntropyError struct {
	Source string
	Op     string // "open", "discard" or "salt"
	Want   int
	Got    int
	Err    error
}

func (e *EntropyError) Error() string {
	if e.Op == "open" {
		return fmt.Sprintf("entropy source %s: open: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("entropy source %s: %s: read %d of %d bytes: %v", e.Source, e.Op, e.Got, e.Want, e.Err)
}

func (e *EntropyError) Unwrap() []error { return []error{ErrEntropy, e.Err} }

type UnsupportedAlgorithmError struct {
	Name string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported digest algorithm %q (expected one of: %s)", e.Name, strings.Join(Names(), ", "))
}

func (e *UnsupportedAlgorithmError) Unwrap() error { return ErrUnsupportedAlgorithm }
