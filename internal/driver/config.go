package driver

import (
	"errors"
	"fmt"

	"srchash/internal/alias"
	"srchash/internal/dialect"
	"srchash/internal/digest"
	"srchash/internal/source"
)

// ErrInvalidConfig wraps every configuration problem NewPipeline rejects.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultMaxDiagnostics caps the diagnostics kept per file.
const DefaultMaxDiagnostics = 100

// Config is the resolved configuration of a pipeline. Every stage reads it
// from the Pipeline; nothing is global.
type Config struct {
	Algorithm digest.Algorithm
	// Language forces a dialect. Empty selects one from each file's extension.
	Language string
	// HexNumbers enables numeric literal tokens and the decimal → hex rewrite.
	HexNumbers  bool
	SaltSize    int
	DiscardSize int
	// Entropy is the salt source. Nil selects the system CSPRNG.
	Entropy     digest.Source
	AliasPrefix string
	// Encoding is the charset source files are stored in. Output is written
	// back in the same charset.
	Encoding       source.Encoding
	MaxDiagnostics int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Algorithm:      digest.Default,
		SaltSize:       digest.DefaultSaltSize,
		DiscardSize:    digest.DefaultDiscardSize,
		Entropy:        digest.SystemSource{},
		AliasPrefix:    alias.DefaultPrefix,
		Encoding:       source.EncodingUTF8,
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

// Validate checks the parts of cfg that do not need I/O.
func (cfg Config) Validate() error {
	if !cfg.Algorithm.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, &digest.UnsupportedAlgorithmError{Name: cfg.Algorithm.String()})
	}
	if cfg.SaltSize < 0 {
		return fmt.Errorf("%w: salt size %d is negative", ErrInvalidConfig, cfg.SaltSize)
	}
	if cfg.DiscardSize < 0 {
		return fmt.Errorf("%w: discard size %d is negative", ErrInvalidConfig, cfg.DiscardSize)
	}
	if cfg.Language != "" {
		if _, err := dialect.Lookup(cfg.Language); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if err := validatePrefix(cfg.AliasPrefix); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// validatePrefix requires a portable identifier start so that alias tokens
// stay names in every dialect, even when the digest begins with a digit.
func validatePrefix(p string) error {
	if p == "" {
		return errors.New("alias prefix must not be empty")
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		ok := c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (i > 0 && c >= '0' && c <= '9')
		if !ok {
			return fmt.Errorf("alias prefix %q: byte %q is not allowed at position %d", p, c, i)
		}
	}
	return nil
}
