package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"srchash/internal/diag"
	"srchash/internal/diagfmt"
	"srchash/internal/driver"
	"srchash/internal/observ"
	"srchash/internal/source"
)

type summaryFormat string

const (
	summaryPretty summaryFormat = "pretty"
	summaryJSON   summaryFormat = "json"
)

func readSummaryFormat(value string) (summaryFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "pretty":
		return summaryPretty, nil
	case "json":
		return summaryJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty or json)", value)
	}
}

// hashReporter prints what a hash run produced: lexer diagnostics, one
// summary per file and, with --timings, the stage breakdown.
type hashReporter struct {
	out    io.Writer
	errOut io.Writer
	env    *runEnv
	format summaryFormat
}

type runReport struct {
	RunID string           `json:"run_id"`
	Files []driver.Summary `json:"files"`
}

func (r *hashReporter) report(fs *source.FileSet, results []driver.BatchResult) error {
	if !r.env.Quiet {
		if err := r.diagnostics(fs, results); err != nil {
			return err
		}
	}

	if r.env.Timings {
		var total observ.Report
		timed := 0
		for _, br := range results {
			if br.Result == nil {
				continue
			}
			if err := br.Result.Timing.WriteText(r.errOut, br.Result.Path); err != nil {
				return err
			}
			total = total.Merge(br.Result.Timing)
			timed++
		}
		if timed > 1 {
			if err := total.WriteText(r.errOut, fmt.Sprintf("all %d files", timed)); err != nil {
				return err
			}
		}
	}

	switch r.format {
	case summaryJSON:
		rep := runReport{RunID: r.env.RunID, Files: make([]driver.Summary, 0, len(results))}
		for _, br := range results {
			rep.Files = append(rep.Files, summarize(br))
		}
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		if r.env.Quiet {
			return nil
		}
		return r.pretty(results)
	}
}

// diagnostics prints lexer findings with source snippets for a single file
// and in the one-line form for batches.
func (r *hashReporter) diagnostics(fs *source.FileSet, results []driver.BatchResult) error {
	if len(results) > 1 {
		var all []diag.Diagnostic
		for _, br := range results {
			if br.Result != nil && br.Result.Bag != nil {
				all = append(all, br.Result.Bag.Items()...)
			}
		}
		if short := diag.FormatGoldenDiagnostics(all, fs, false); short != "" {
			_, err := fmt.Fprintln(r.errOut, short)
			return err
		}
		return nil
	}
	for _, br := range results {
		if br.Result == nil || br.Result.Bag == nil || br.Result.Bag.Len() == 0 {
			continue
		}
		err := diagfmt.Pretty(r.errOut, br.Result.Bag, fs, diagfmt.PrettyOpts{
			Color:     r.env.Color,
			ShowNotes: true,
			Max:       r.env.MaxDiags,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func summarize(br driver.BatchResult) driver.Summary {
	var s driver.Summary
	if br.Result != nil {
		s = br.Result.Summary()
	} else {
		s.Path = driver.DisplayPath(br.Job.Input)
	}
	if br.Err != nil {
		s.Error = br.Err.Error()
	}
	return s
}

func (r *hashReporter) pretty(results []driver.BatchResult) error {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	var b strings.Builder
	failed := 0
	for _, br := range results {
		s := summarize(br)
		if br.Err != nil {
			failed++
			fmt.Fprintf(&b, "%s %s: %s\n", fail.Sprint("FAIL"), s.Path, s.Error)
			continue
		}
		fmt.Fprintf(&b, "%s %s -> %s %s\n",
			ok.Sprint("ok"),
			s.Path,
			s.Output,
			dim.Sprintf("(%s, %s: %d identifiers, %d replacements, %d bytes)",
				s.Dialect, s.Algorithm, s.Stats.Identifiers, s.Stats.Replacements, s.Stats.BytesWritten))
	}
	if len(results) > 1 {
		fmt.Fprintf(&b, "%d file(s), %d failed\n", len(results), failed)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}
