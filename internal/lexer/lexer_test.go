package lexer_test

import (
	"fmt"
	"slices"
	"testing"

	"srchash/internal/dialect"
	"srchash/internal/diag"
	"srchash/internal/lexer"
	"srchash/internal/source"
	"srchash/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return out
}

func mustDialect(t *testing.T, name string) dialect.Dialect {
	t.Helper()
	d, err := dialect.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string, d dialect.Dialect) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter, Dialect: d}), reporter
}

// collectAllTokens собирает все токены до EOF (EOF не включается)
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

type tk struct {
	kind token.Kind
	text string
}

func expectTokens(t *testing.T, input string, d dialect.Dialect, expected []tk) *testReporter {
	t.Helper()
	lx, reporter := makeTestLexer(input, d)
	tokens := collectAllTokens(lx)

	if len(tokens) != len(expected) {
		got := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			got = append(got, fmt.Sprintf("%s(%q)", tok.Kind, tok.Text))
		}
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\ndiags: %v",
			len(expected), len(tokens), input, got, reporter.messages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i].kind || tok.Text != expected[i].text {
			t.Errorf("token %d: expected %s(%q), got %s(%q)",
				i, expected[i].kind, expected[i].text, tok.Kind, tok.Text)
		}
	}
	return reporter
}

func TestKeywordsAreIdentifiers(t *testing.T) {
	cpp := mustDialect(t, "cpp")
	rep := expectTokens(t, "int foo(int x) { return x + 1; }", cpp, []tk{
		{token.Ident, "int"},
		{token.Ident, "foo"},
		{token.Invalid, "("},
		{token.Ident, "int"},
		{token.Ident, "x"},
		{token.Invalid, ")"},
		{token.Invalid, "{"},
		{token.Ident, "return"},
		{token.Ident, "x"},
		{token.Invalid, "+"},
		{token.Invalid, "1;"},
		{token.Invalid, "}"},
	})
	for _, code := range rep.codes() {
		if code != diag.LexUnrecognized {
			t.Fatalf("unexpected diagnostic %s", code.ID())
		}
	}
	if len(rep.diagnostics) != 6 {
		t.Fatalf("expected one report per skipped run, got %v", rep.messages())
	}
}

func TestIdentifierGrammar(t *testing.T) {
	expectTokens(t, "_a1 $cash a$b 9lives", mustDialect(t, "c"), []tk{
		{token.Ident, "_a1"},
		{token.Ident, "$cash"},
		{token.Ident, "a$b"},
		{token.Invalid, "9"},
		{token.Ident, "lives"},
	})
	// glsl has no '$' in names
	expectTokens(t, "a$b", mustDialect(t, "glsl"), []tk{
		{token.Ident, "a"},
		{token.Invalid, "$"},
		{token.Ident, "b"},
	})
}

func TestDirectives(t *testing.T) {
	cpp := mustDialect(t, "cpp")
	expectTokens(t, "#   include   <stdio.h>\n  #define X 1\nint y; # not a directive\n", cpp, []tk{
		{token.Directive, "#   include   <stdio.h>"},
		{token.Directive, "#define X 1"},
		{token.Ident, "int"},
		{token.Ident, "y"},
		{token.Invalid, ";"},
		{token.Invalid, "#"},
		{token.Ident, "not"},
		{token.Ident, "a"},
		{token.Ident, "directive"},
	})
}

func TestDirectiveContinuation(t *testing.T) {
	cpp := mustDialect(t, "cpp")
	lx, rep := makeTestLexer("#define MAX(a, b) \\\n  ((a) > (b))\nint z;\n", cpp)
	tokens := collectAllTokens(lx)
	if tokens[0].Kind != token.Directive || tokens[0].Text != "#define MAX(a, b) \\\n  ((a) > (b))" {
		t.Fatalf("directive = %s(%q)", tokens[0].Kind, tokens[0].Text)
	}
	if tokens[1].Text != "int" || tokens[1].Line != 3 {
		t.Fatalf("token after continuation = %q on line %d", tokens[1].Text, tokens[1].Line)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnrecognized {
		t.Fatalf("unexpected diagnostics %v", rep.messages())
	}
}

func TestDirectiveContinuationAtEOF(t *testing.T) {
	lx, rep := makeTestLexer("#define X \\", mustDialect(t, "c"))
	tokens := collectAllTokens(lx)
	if len(tokens) != 1 || tokens[0].Kind != token.Directive {
		t.Fatalf("tokens = %v", tokens)
	}
	if !slices.Contains(rep.codes(), diag.LexUnterminatedDirective) {
		t.Fatalf("expected %s, got %v", diag.LexUnterminatedDirective.ID(), rep.messages())
	}
}

func TestQuotedSpansAreGreedy(t *testing.T) {
	cpp := mustDialect(t, "cpp")
	expectTokens(t, `puts("a", "b"); c = 'x';`+"\n"+`s = "q\"r";`, cpp, []tk{
		{token.Ident, "puts"},
		{token.Invalid, "("},
		{token.StringLit, `"a", "b"`},
		{token.Invalid, ");"},
		{token.Ident, "c"},
		{token.Invalid, "="},
		{token.CharLit, "'x'"},
		{token.Invalid, ";"},
		{token.Ident, "s"},
		{token.Invalid, "="},
		{token.StringLit, `"q\"r"`},
		{token.Invalid, ";"},
	})
}

func TestUnpairedQuote(t *testing.T) {
	cpp := mustDialect(t, "cpp")
	rep := expectTokens(t, "// don't panic\nok", cpp, []tk{
		{token.Invalid, "//"},
		{token.Ident, "don"},
		{token.Invalid, "'"},
		{token.Ident, "t"},
		{token.Ident, "panic"},
		{token.Ident, "ok"},
	})
	if !slices.Contains(rep.codes(), diag.LexUnterminatedLiteral) {
		t.Fatalf("expected unterminated literal warning, got %v", rep.messages())
	}
}

func TestMarkerLineInsideMalformedLiteral(t *testing.T) {
	// The raw string opens a quote that never closes on its line, so the
	// marker line inside it is still lexed as a directive.
	src := "const char *s = R\"(\n#include <secret.h>\n)\";\n"
	lx, _ := makeTestLexer(src, mustDialect(t, "cpp"))
	var directives []string
	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.Directive {
			directives = append(directives, tok.Text)
		}
	}
	if !slices.Equal(directives, []string{"#include <secret.h>"}) {
		t.Fatalf("directives = %q", directives)
	}
}

func TestNumbers(t *testing.T) {
	num := mustDialect(t, "c").WithNumbers(true)
	expectTokens(t, "x = 123 + 010u + 0x1F + 1.5e-3 + .5 + 1'000 + 42ULL;", num, []tk{
		{token.Ident, "x"},
		{token.Invalid, "="},
		{token.IntLit, "123"},
		{token.Invalid, "+"},
		{token.IntLit, "010u"},
		{token.Invalid, "+"},
		{token.NumberLit, "0x1F"},
		{token.Invalid, "+"},
		{token.NumberLit, "1.5e-3"},
		{token.Invalid, "+"},
		{token.NumberLit, ".5"},
		{token.Invalid, "+"},
		{token.NumberLit, "1'000"},
		{token.Invalid, "+"},
		{token.IntLit, "42ULL"},
		{token.Invalid, ";"},
	})
}

func TestIsPlainDecimal(t *testing.T) {
	cases := map[string]bool{
		"0": true, "123": true, "7u": true, "9ULL": true,
		"": false, "u": false, "0x10": false, "1.0": false, "12ab": false,
	}
	for in, want := range cases {
		if got := lexer.IsPlainDecimal(in); got != want {
			t.Errorf("IsPlainDecimal(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLineCounting(t *testing.T) {
	lx, _ := makeTestLexer("a\n\n\nb\r\n  c", mustDialect(t, "cpp"))
	want := map[string]uint32{"a": 1, "b": 4, "c": 5}
	for _, tok := range collectAllTokens(lx) {
		if want[tok.Text] != tok.Line {
			t.Errorf("%q on line %d, want %d", tok.Text, tok.Line, want[tok.Text])
		}
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("a", mustDialect(t, "cpp"))
	lx.Next()
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %s", tok.Kind)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b", mustDialect(t, "cpp"))
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
}

func TestScanIsRestartable(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.c", []byte("#include <a.h>\nint main; @")))
	rep := &testReporter{}
	seq := lexer.Scan(file, lexer.Options{Reporter: rep})

	var first, second []string
	for tok := range seq {
		first = append(first, tok.Text)
	}
	for tok := range seq {
		second = append(second, tok.Text)
	}
	if !slices.Equal(first, second) || len(first) != 5 {
		t.Fatalf("first=%q second=%q", first, second)
	}
	if len(rep.diagnostics) != 4 {
		t.Fatalf("each pass reports again: got %v", rep.messages())
	}

	for tok := range seq {
		if tok.Kind != token.Directive {
			t.Fatalf("first token = %s", tok.Kind)
		}
		break
	}
}

func TestAllEndsWithEOF(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.c", nil))
	toks := lexer.All(file, lexer.Options{})
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("All on empty input = %v", toks)
	}
}

func TestSpansMatchText(t *testing.T) {
	src := "#if X\nfoo(\"bar\", 'c') @@ 12\n#endif\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.c", []byte(src)))
	for tok := range lexer.Scan(file, lexer.Options{}) {
		if got := tok.Span.Text(file); got != tok.Text {
			t.Fatalf("span text %q != token text %q", got, tok.Text)
		}
	}
}
