package driver

import (
	"srchash/internal/alias"
	"srchash/internal/classify"
	"srchash/internal/diag"
	"srchash/internal/digest"
	"srchash/internal/observ"
)

// Stats counts what one run saw and changed.
type Stats struct {
	Tokens         int   `json:"tokens"`
	Invalid        int   `json:"invalid"`
	Identifiers    int   `json:"identifiers"`
	Directives     int   `json:"directives"`
	NumberRewrites int   `json:"number_rewrites"`
	StrippedLines  int   `json:"stripped_lines"`
	Replacements   int   `json:"replacements"`
	BytesWritten   int64 `json:"bytes_written"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Path      string
	Output    string
	Dialect   string
	Algorithm digest.Algorithm
	// Identifiers in substitution order: length descending, then value descending.
	Identifiers []string
	Directives  classify.DirectiveSequence
	Aliases     *alias.Map
	// Body is the substituted body, without the directive and alias blocks.
	Body   []byte
	Bag    *diag.Bag
	Stats  Stats
	Timing observ.Report
}

// Summary is the serializable form of a Result for `--format json`.
type Summary struct {
	Path      string        `json:"path"`
	Output    string        `json:"output,omitempty"`
	Dialect   string        `json:"dialect"`
	Algorithm string        `json:"algorithm"`
	Stats     Stats         `json:"stats"`
	Timing    observ.Report `json:"timing"`
	Error     string        `json:"error,omitempty"`
}

// Summary returns the serializable summary of r.
func (r *Result) Summary() Summary {
	return Summary{
		Path:      r.Path,
		Output:    r.Output,
		Dialect:   r.Dialect,
		Algorithm: r.Algorithm.String(),
		Stats:     r.Stats,
		Timing:    r.Timing,
	}
}
