package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const (
	DefaultSaltSize    = 1024
	DefaultDiscardSize = 0
)

// Hasher produces salted hex digests. A fresh salt is drawn for every call,
// so the same identifier hashes differently each time unless SaltSize is 0.
type Hasher struct {
	Algorithm   Algorithm
	SaltSize    int
	DiscardSize int
	Source      Source
}

// NewHasher validates the configuration. A nil source selects SystemSource.
func NewHasher(alg Algorithm, saltSize, discardSize int, src Source) (*Hasher, error) {
	if !alg.Valid() {
		return nil, &UnsupportedAlgorithmError{Name: alg.String()}
	}
	if saltSize < 0 {
		return nil, fmt.Errorf("salt size %d: %w", saltSize, ErrInvalidSize)
	}
	if discardSize < 0 {
		return nil, fmt.Errorf("discard size %d: %w", discardSize, ErrInvalidSize)
	}
	if src == nil {
		src = SystemSource{}
	}
	return &Hasher{Algorithm: alg, SaltSize: saltSize, DiscardSize: discardSize, Source: src}, nil
}

// Sum discards DiscardSize bytes, draws SaltSize bytes of salt and returns
// hex(H(text || salt)).
func (h *Hasher) Sum(text string) (string, error) {
	salt, err := h.Salt()
	if err != nil {
		return "", err
	}
	return h.SumWithSalt(text, salt), nil
}

// SumWithSalt hashes text with a caller-supplied salt.
func (h *Hasher) SumWithSalt(text string, salt []byte) string {
	d := h.Algorithm.New()
	_, _ = io.WriteString(d, text)
	_, _ = d.Write(salt)
	return hex.EncodeToString(d.Sum(nil))
}

// Salt performs one entropy draw. The source is opened and closed per call.
func (h *Hasher) Salt() ([]byte, error) {
	if h.SaltSize == 0 && h.DiscardSize == 0 {
		return nil, nil
	}
	r, err := h.Source.Open()
	if err != nil {
		return nil, &EntropyError{Source: h.Source.String(), Op: "open", Err: err}
	}
	defer r.Close()

	if h.DiscardSize > 0 {
		n, err := io.CopyN(io.Discard, r, int64(h.DiscardSize))
		if err != nil {
			return nil, &EntropyError{Source: h.Source.String(), Op: "discard", Want: h.DiscardSize, Got: int(n), Err: shortRead(err)}
		}
	}

	salt := make([]byte, h.SaltSize)
	n, err := io.ReadFull(r, salt)
	if err != nil {
		return nil, &EntropyError{Source: h.Source.String(), Op: "salt", Want: h.SaltSize, Got: n, Err: shortRead(err)}
	}
	return salt, nil
}

func shortRead(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
