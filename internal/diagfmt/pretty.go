package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"srchash/internal/diag"
	"srchash/internal/source"
)

type palette struct {
	err, warn, info, path, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		path:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span и, по желанию, заметки.
// Порядок как в bag.Items(); вызывающий сортирует заранее.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	var b strings.Builder
	for _, d := range items {
		f := fs.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(&b, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		loc := fmt.Sprintf("%s:%d:%d", f.FormatPath(opts.PathMode.mode(), fs.BaseDir()), start.Line, start.Col)
		fmt.Fprintf(&b, "%s: %s %s: %s\n",
			pal.path.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)
		writeSnippet(&b, f, fs, d.Primary, pal)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&b, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			}
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(&b, "... %d more diagnostics not shown (limit %d)\n", dropped, bag.Cap())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSnippet prints the primary line with a caret run under the span. A
// span that crosses lines is underlined to the end of its first line.
func writeSnippet(b *strings.Builder, f *source.File, fs *source.FileSet, sp source.Span, pal palette) {
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	gutter := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(gutter))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	} else if end.Line > start.Line {
		width = max(1, len(line)-int(start.Col)+1)
	}
	indent := expandTabs(line[:min(len(line), int(start.Col)-1)])

	fmt.Fprintf(b, "%s |\n", pad)
	fmt.Fprintf(b, "%s | %s\n", gutter, line)
	fmt.Fprintf(b, "%s | %s%s\n", pad, indent, pal.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// expandTabs keeps tabs so the caret lines up under tab-indented code.
func expandTabs(prefix string) string {
	var b strings.Builder
	for i := 0; i < len(prefix); i++ {
		if prefix[i] == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}
