package dialect

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Dialect is the token grammar of one C-family language as the lexer sees it.
// Only lexical knobs live here. There is no keyword table: keywords are
// hashed like any other name.
type Dialect struct {
	Name string
	// Marker starts a directive line when it is the first non-blank byte.
	Marker byte
	// DollarIdents admits '$' in identifiers (GCC extension).
	DollarIdents bool
	// Continuations extends directives across lines ending in '\'.
	Continuations bool
	// Numbers emits numeric literal tokens so they can be rewritten to hex.
	Numbers bool
	// Extensions lists file suffixes (with dot) that select this dialect.
	Extensions []string
}

var registry = map[string]Dialect{
	"c": {
		Name:          "c",
		Marker:        '#',
		DollarIdents:  true,
		Continuations: true,
		Extensions:    []string{".c", ".h"},
	},
	"cpp": {
		Name:          "cpp",
		Marker:        '#',
		DollarIdents:  true,
		Continuations: true,
		Extensions:    []string{".cpp", ".cc", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".inl"},
	},
	"objc": {
		Name:          "objc",
		Marker:        '#',
		DollarIdents:  true,
		Continuations: true,
		Extensions:    []string{".m", ".mm"},
	},
	"glsl": {
		Name:          "glsl",
		Marker:        '#',
		Continuations: true,
		Extensions:    []string{".glsl", ".vert", ".frag", ".comp"},
	},
}

var aliases = map[string]string{
	"c++":         "cpp",
	"cxx":         "cpp",
	"objective-c": "objc",
	"objcpp":      "objc",
}

// Default is the dialect used when nothing else is selected.
const Default = "cpp"

// Lookup resolves a dialect by name or alias (case-insensitive).
func Lookup(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	if canon, ok := aliases[key]; ok {
		key = canon
	}
	d, ok := registry[key]
	if !ok {
		return Dialect{}, fmt.Errorf("unknown language %q (expected one of: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// ForPath picks a dialect from the file extension, falling back to Default.
func ForPath(path string) Dialect {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range Names() {
		d := registry[name]
		for _, e := range d.Extensions {
			if e == ext {
				return d
			}
		}
	}
	return registry[Default]
}

// Names returns the canonical dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithNumbers returns a copy of d with numeric literal tokens enabled or disabled.
func (d Dialect) WithNumbers(on bool) Dialect {
	d.Numbers = on
	return d
}

// IsIdentStart reports whether b may begin an identifier.
func (d Dialect) IsIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b == '$' && d.DollarIdents)
}

// IsIdentContinue reports whether b may continue an identifier.
func (d Dialect) IsIdentContinue(b byte) bool {
	return d.IsIdentStart(b) || (b >= '0' && b <= '9')
}
