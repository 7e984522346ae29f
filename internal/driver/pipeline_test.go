package driver_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srchash/internal/diag"
	"srchash/internal/digest"
	"srchash/internal/driver"
	"srchash/internal/pipeline"
	"srchash/internal/source"
)

// deterministic returns a config whose digests are the plain SHA-256 of
// each identifier.
func deterministic() driver.Config {
	cfg := driver.DefaultConfig()
	cfg.SaltSize = 0
	return cfg
}

func sha(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "_" + hex.EncodeToString(sum[:])
}

func runString(t *testing.T, p *driver.Pipeline, name, src string) (*driver.Result, string) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	var out bytes.Buffer
	res, err := p.Run(context.Background(), file, &out)
	require.NoError(t, err)
	return res, out.String()
}

func TestNewPipelineValidatesEagerly(t *testing.T) {
	cases := map[string]func(*driver.Config){
		"algorithm":    func(c *driver.Config) { c.Algorithm = digest.Unknown },
		"salt":         func(c *driver.Config) { c.SaltSize = -1 },
		"discard":      func(c *driver.Config) { c.DiscardSize = -5 },
		"language":     func(c *driver.Config) { c.Language = "cobol" },
		"empty prefix": func(c *driver.Config) { c.AliasPrefix = "" },
		"digit prefix": func(c *driver.Config) { c.AliasPrefix = "9x" },
		"dash prefix":  func(c *driver.Config) { c.AliasPrefix = "h-" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := driver.DefaultConfig()
			mutate(&cfg)
			_, err := driver.NewPipeline(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, driver.ErrInvalidConfig)
		})
	}

	cfg := driver.DefaultConfig()
	cfg.Algorithm = digest.Unknown
	_, err := driver.NewPipeline(cfg)
	assert.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)
}

func TestRunGolden(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	fs := source.NewFileSet()
	file, err := p.Load(fs, filepath.Join("testdata", "sample.c"))
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := p.Run(context.Background(), file, &out)
	require.NoError(t, err)

	assert.Equal(t, "c", res.Dialect)
	assert.Equal(t, 9, res.Stats.Identifiers)
	assert.Equal(t, 2, res.Stats.Directives)
	assert.Equal(t, 2, res.Stats.StrippedLines)
	assert.Equal(t, 11, res.Stats.Replacements)
	assert.Equal(t, int64(out.Len()), res.Stats.BytesWritten)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sample", out.Bytes())
}

func TestRunKeywordsAreHashed(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	res, out := runString(t, p, "k.c", "int foo(int x) { return x + 1; }\n")

	assert.Equal(t, []string{"return", "int", "foo", "x"}, res.Identifiers)
	for _, id := range res.Identifiers {
		assert.Contains(t, out, "#define "+sha(id)+" "+id+"\n")
	}
	wantBody := sha("int") + " " + sha("foo") + "(" + sha("int") + " " + sha("x") + ") { " +
		sha("return") + " " + sha("x") + " + 1; }\n"
	assert.True(t, strings.HasSuffix(out, wantBody), out)
	assert.Equal(t, wantBody, string(res.Body))
}

func TestRunSqueezesDirectivesBeforeAliases(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	_, out := runString(t, p, "s.c", "#   include   <stdio.h>\nint x;\n")
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "# include <stdio.h>", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "#define _"), out)
}

func TestRunStripsMarkerLinesEverywhere(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	src := "const char *s = R\"(\n#include <x.h>\n)\";\n  #pragma once\nint y;\n"
	res, _ := runString(t, p, "raw.cpp", src)

	assert.Equal(t, 2, res.Stats.StrippedLines)
	for _, line := range strings.Split(string(res.Body), "\n") {
		assert.False(t, strings.HasPrefix(strings.TrimSpace(line), "#"), "marker line left in body: %q", line)
	}
}

func TestRunIsNotDeterministicWithSalt(t *testing.T) {
	p, err := driver.NewPipeline(driver.DefaultConfig())
	require.NoError(t, err)

	a, _ := runString(t, p, "a.c", "int main;\n")
	b, _ := runString(t, p, "a.c", "int main;\n")

	aliasA, _ := a.Aliases.Alias("main")
	aliasB, _ := b.Aliases.Alias("main")
	assert.NotEqual(t, aliasA, aliasB)
	assert.Len(t, aliasA, 1+digest.SHA2.HexLen())
}

func TestRunAliasesAreUnique(t *testing.T) {
	p, err := driver.NewPipeline(driver.DefaultConfig())
	require.NoError(t, err)

	res, _ := runString(t, p, "u.c", "int a, b, c; char *d = \"a\"; char e = 'b';\n")
	seen := map[string]string{}
	for _, e := range res.Aliases.Entries() {
		tok := res.Aliases.Token(e)
		prev, dup := seen[tok]
		require.False(t, dup, "%s and %s share %s", prev, e.Identifier, tok)
		seen[tok] = e.Identifier
	}
	assert.Equal(t, res.Stats.Identifiers, res.Aliases.Len())
}

func TestRunHexNumbers(t *testing.T) {
	cfg := deterministic()
	cfg.HexNumbers = true
	p, err := driver.NewPipeline(cfg)
	require.NoError(t, err)

	res, _ := runString(t, p, "n.c", "int a = 255; int b = 0x10; int c = 99999999999999999999;\n")
	assert.Equal(t, 1, res.Stats.NumberRewrites)
	assert.Contains(t, string(res.Body), "= 0xff;")
	assert.Contains(t, string(res.Body), "= 0x10;")
	assert.Equal(t, 1, res.Bag.Count(diag.RwNumberOutOfRange))
}

func TestRunCollectsLexerGaps(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	res, _ := runString(t, p, "g.c", "int x = @@@;\n")
	assert.Positive(t, res.Stats.Invalid)
	assert.Positive(t, res.Bag.Count(diag.LexUnrecognized))
	assert.False(t, res.Bag.HasErrors())
}

func TestRunEntropyFailure(t *testing.T) {
	cfg := driver.DefaultConfig()
	cfg.SaltSize = 8
	cfg.Entropy = digest.ReaderSource{R: bytes.NewReader([]byte{1, 2, 3}), Name: "short"}
	p, err := driver.NewPipeline(cfg)
	require.NoError(t, err)

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("e.c", []byte("int x;\n")))
	var out bytes.Buffer
	_, err = p.Run(context.Background(), file, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, digest.ErrEntropy)
	assert.Zero(t, out.Len(), "nothing is emitted after a failed stage")
}

func TestRunToLeavesNoFileOnFailure(t *testing.T) {
	cfg := driver.DefaultConfig()
	cfg.Entropy = digest.DeviceSource{Path: filepath.Join(t.TempDir(), "missing")}
	p, err := driver.NewPipeline(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.c")
	out := filepath.Join(dir, "out.c")
	require.NoError(t, os.WriteFile(in, []byte("int x;\n"), 0o600))

	_, err = p.HashFile(context.Background(), source.NewFileSet(), driver.Job{Input: in, Output: out})
	require.Error(t, err)
	assert.ErrorIs(t, err, digest.ErrEntropy)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary output must be removed")
}

func TestRunToStdioAndProgress(t *testing.T) {
	var rec pipeline.Recorder
	var stdout bytes.Buffer
	p, err := driver.NewPipeline(deterministic(),
		driver.WithStdio(strings.NewReader("int x;\n"), &stdout),
		driver.WithProgress(&rec))
	require.NoError(t, err)

	res, err := p.HashFile(context.Background(), source.NewFileSet(), driver.Job{Input: "-", Output: "-"})
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", res.Path)
	assert.Equal(t, "<stdout>", res.Output)
	assert.Contains(t, stdout.String(), "#define "+sha("int")+" int\n")

	evts := rec.Events()
	require.NotEmpty(t, evts)
	last := evts[len(evts)-1]
	assert.Equal(t, pipeline.StatusDone, last.Status)
	assert.Equal(t, "<stdin>", last.File)

	var stages []pipeline.Stage
	for _, e := range evts {
		if e.Status == pipeline.StatusWorking {
			stages = append(stages, e.Stage)
		}
	}
	assert.Equal(t, pipeline.Stages()[1:], stages)
}

func TestRunHonoursCancellation(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.c", []byte("int x;\n")))
	_, err = p.Run(ctx, file, &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
}

func TestTimingsCoverEveryStage(t *testing.T) {
	p, err := driver.NewPipeline(deterministic())
	require.NoError(t, err)
	res, _ := runString(t, p, "t.c", "int x;\n")

	var names []string
	for _, ph := range res.Timing.Phases {
		names = append(names, ph.Name)
	}
	assert.Equal(t, []string{"lex", "classify", "hash", "substitute", "emit"}, names)
}

func TestTokenize(t *testing.T) {
	p, err := driver.NewPipeline(driver.DefaultConfig())
	require.NoError(t, err)

	res, err := p.Tokenize(filepath.Join("testdata", "sample.c"))
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "Directive", res.Tokens[0].Kind.String())
	assert.Equal(t, "EOF", res.Tokens[len(res.Tokens)-1].Kind.String())
	assert.Equal(t, "c", res.Dialect.Name)
}
