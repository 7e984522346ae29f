package alias

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"srchash/internal/sink"
)

// Current schema version - increment when Document format changes
const documentSchemaVersion uint16 = 1

var ErrSchema = errors.New("unsupported alias map schema")

// Document is the persisted form of a Map, written with --map-out. It lets
// a later restore run work without parsing the alias-definition block.
type Document struct {
	Schema    uint16    `msgpack:"schema" json:"schema" yaml:"schema"`
	RunID     string    `msgpack:"run_id" json:"run_id" yaml:"run_id"`
	Source    string    `msgpack:"source" json:"source" yaml:"source"`
	Algorithm string    `msgpack:"algorithm" json:"algorithm" yaml:"algorithm"`
	Prefix    string    `msgpack:"prefix" json:"prefix" yaml:"prefix"`
	SaltSize  int       `msgpack:"salt_size" json:"salt_size" yaml:"salt_size"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at" yaml:"created_at"`
	Entries   []Entry   `msgpack:"entries" json:"entries" yaml:"entries"`
}

// NewDocument snapshots m. An empty runID gets a fresh UUID.
func NewDocument(m *Map, runID, sourcePath, algorithm string, saltSize int) *Document {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Document{
		Schema:    documentSchemaVersion,
		RunID:     runID,
		Source:    sourcePath,
		Algorithm: algorithm,
		Prefix:    m.Prefix,
		SaltSize:  saltSize,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Entries:   append([]Entry(nil), m.Entries()...),
	}
}

// Map rebuilds the in-memory map.
func (d *Document) Map() (*Map, error) {
	m := NewMap(d.Prefix)
	for _, e := range d.Entries {
		if err := m.Add(e.Identifier, e.Digest); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Save writes d as msgpack to path atomically.
func Save(path string, d *Document) error {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(d); err != nil {
		return fmt.Errorf("encode alias map: %w", err)
	}
	return sink.WriteFile(path, buf.Bytes(), 0o600)
}

// Load reads a msgpack document written by Save.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a msgpack document and checks its schema.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := msgpack.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode alias map: %w", err)
	}
	if d.Schema != documentSchemaVersion {
		return nil, fmt.Errorf("schema %d: %w", d.Schema, ErrSchema)
	}
	return &d, nil
}

// WriteYAML renders d as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// WriteJSON renders d as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
