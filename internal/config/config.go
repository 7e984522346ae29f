// Package config loads the optional .srchash.toml file. Values from the
// file sit between built-in defaults and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"srchash/internal/digest"
	"srchash/internal/driver"
	"srchash/internal/source"
)

// FileName is looked up from the working directory towards the root.
const FileName = ".srchash.toml"

// ErrUnknownKey is returned for keys the file format does not define.
var ErrUnknownKey = errors.New("unknown configuration key")

// Settings mirrors the file. Only keys present in the file are applied.
type Settings struct {
	Algorithm   string `toml:"algorithm"`
	Language    string `toml:"language"`
	HexNumbers  bool   `toml:"hex_numbers"`
	SaltSize    int    `toml:"salt_size"`
	DiscardSize int    `toml:"discard_size"`
	Entropy     string `toml:"entropy"`
	AliasPrefix string `toml:"alias_prefix"`
	Encoding    string `toml:"encoding"`
	Jobs        int    `toml:"jobs"`

	// Path is the file the settings came from; empty when none was found.
	Path    string              `toml:"-"`
	defined map[string]struct{}
}

// IsSet reports whether key was present in the file.
func (s *Settings) IsSet(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.defined[key]
	return ok
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path. Undefined keys keep their defaults; unknown keys fail.
func Load(path string) (*Settings, error) {
	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	s.Path = path
	s.defined = make(map[string]struct{})
	for _, k := range meta.Keys() {
		s.defined[k.String()] = struct{}{}
	}
	return &s, nil
}

// Discover loads explicit when it is set, otherwise the nearest FileName
// above startDir. No file yields empty settings and no error.
func Discover(startDir, explicit string) (*Settings, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Settings{}, nil
	}
	return Load(path)
}

// Apply copies every key present in the file into cfg.
func (s *Settings) Apply(cfg *driver.Config) error {
	if s == nil {
		return nil
	}
	where := func(err error) error { return fmt.Errorf("%s: %w", s.Path, err) }

	if s.IsSet("algorithm") {
		alg, err := digest.ParseAlgorithm(s.Algorithm)
		if err != nil {
			return where(err)
		}
		cfg.Algorithm = alg
	}
	if s.IsSet("language") {
		cfg.Language = s.Language
	}
	if s.IsSet("hex_numbers") {
		cfg.HexNumbers = s.HexNumbers
	}
	if s.IsSet("salt_size") {
		cfg.SaltSize = s.SaltSize
	}
	if s.IsSet("discard_size") {
		cfg.DiscardSize = s.DiscardSize
	}
	if s.IsSet("entropy") {
		cfg.Entropy = digest.ParseSource(s.Entropy)
	}
	if s.IsSet("alias_prefix") {
		cfg.AliasPrefix = s.AliasPrefix
	}
	if s.IsSet("encoding") {
		enc, err := source.ParseEncoding(s.Encoding)
		if err != nil {
			return where(err)
		}
		cfg.Encoding = enc
	}
	return nil
}
