// Package alias holds the identifier → digest mapping of one run and the
// alias tokens derived from it.
package alias

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPrefix starts every alias token so digests that begin with a digit
// still form valid names.
const DefaultPrefix = "_"

var (
	ErrDuplicate = errors.New("identifier already mapped")
	ErrCollision = errors.New("alias collision")
)

// Entry maps one identifier to its digest.
type Entry struct {
	Identifier string `msgpack:"ident" json:"identifier" yaml:"identifier"`
	Digest     string `msgpack:"digest" json:"digest" yaml:"digest"`
}

// Map keeps entries in population order.
type Map struct {
	Prefix  string
	entries []Entry
	byIdent map[string]int
	byAlias map[string]int
}

func NewMap(prefix string) *Map {
	return &Map{
		Prefix:  prefix,
		byIdent: make(map[string]int),
		byAlias: make(map[string]int),
	}
}

// Add records ident → digest. Identifiers map once. Alias tokens are
// unique and never spell another entry's identifier.
func (m *Map) Add(ident, digest string) error {
	if _, ok := m.byIdent[ident]; ok {
		return fmt.Errorf("%q: %w", ident, ErrDuplicate)
	}
	tok := m.Prefix + digest
	if i, ok := m.byAlias[tok]; ok {
		return fmt.Errorf("%q and %q both map to %s: %w", m.entries[i].Identifier, ident, tok, ErrCollision)
	}
	if _, ok := m.byIdent[tok]; ok {
		return fmt.Errorf("alias %s of %q is itself an identifier: %w", tok, ident, ErrCollision)
	}
	if i, ok := m.byAlias[ident]; ok {
		return fmt.Errorf("%q is the alias of %q: %w", ident, m.entries[i].Identifier, ErrCollision)
	}
	m.byIdent[ident] = len(m.entries)
	m.byAlias[tok] = len(m.entries)
	m.entries = append(m.entries, Entry{Identifier: ident, Digest: digest})
	return nil
}

// Alias returns the alias token for ident.
func (m *Map) Alias(ident string) (string, bool) {
	i, ok := m.byIdent[ident]
	if !ok {
		return "", false
	}
	return m.Prefix + m.entries[i].Digest, true
}

// Resolve returns the identifier an alias token stands for.
func (m *Map) Resolve(tok string) (string, bool) {
	i, ok := m.byAlias[tok]
	if !ok {
		return "", false
	}
	return m.entries[i].Identifier, true
}

// Token returns the alias token of e under this map's prefix.
func (m *Map) Token(e Entry) string { return m.Prefix + e.Digest }

func (m *Map) Len() int { return len(m.entries) }

// Entries returns the entries in population order. Do not modify.
func (m *Map) Entries() []Entry { return m.entries }

// Summer computes one digest per identifier.
type Summer interface {
	Sum(text string) (string, error)
}

// Build hashes idents in the given order and returns the populated map.
// onEntry, when set, runs after every identifier. The context is checked
// between identifiers; a single entropy read is not interruptible.
func Build(ctx context.Context, idents []string, prefix string, h Summer, onEntry func(i int, e Entry)) (*Map, error) {
	m := NewMap(prefix)
	for i, ident := range idents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := h.Sum(ident)
		if err != nil {
			return nil, fmt.Errorf("hash identifier %d of %d: %w", i+1, len(idents), err)
		}
		if err := m.Add(ident, d); err != nil {
			return nil, err
		}
		if onEntry != nil {
			onEntry(i, m.entries[i])
		}
	}
	return m, nil
}
