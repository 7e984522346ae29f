package subst_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srchash/internal/alias"
	"srchash/internal/dialect"
	"srchash/internal/subst"
)

func cpp(t *testing.T) dialect.Dialect {
	t.Helper()
	d, err := dialect.Lookup("cpp")
	require.NoError(t, err)
	return d
}

func TestStripDirectives(t *testing.T) {
	body := "#include <a.h>\nint a;\n   #define M(x) \\\n   (x)\nint b;\n# pragma once"
	out, n := subst.StripDirectives([]byte(body), cpp(t))
	assert.Equal(t, "int a;\nint b;\n", string(out))
	assert.Equal(t, 4, n)
}

func TestStripDirectivesIgnoresLexerView(t *testing.T) {
	body := "const char *s = R\"(\n#include <secret.h>\n)\";\n"
	out, n := subst.StripDirectives([]byte(body), cpp(t))
	assert.Equal(t, "const char *s = R\"(\n)\";\n", string(out))
	assert.Equal(t, 1, n)
}

func TestStripKeepsMidLineMarker(t *testing.T) {
	out, n := subst.StripDirectives([]byte("a # b\n"), cpp(t))
	assert.Equal(t, "a # b\n", string(out))
	assert.Zero(t, n)
}

func TestReplaceWordWholeWordOnly(t *testing.T) {
	d := cpp(t)
	out, n := subst.ReplaceWord([]byte("foo foobar barfoo foo_1 (foo) $foo foo"), "foo", "X", d)
	assert.Equal(t, "X foobar barfoo foo_1 (X) $foo X", string(out))
	assert.Equal(t, 3, n)
}

func TestReplaceWordOverlapping(t *testing.T) {
	out, n := subst.ReplaceWord([]byte("aa aaa aa"), "aa", "B", cpp(t))
	assert.Equal(t, "B aaa B", string(out))
	assert.Equal(t, 2, n)
}

func TestReplaceWordLiterals(t *testing.T) {
	out, n := subst.ReplaceWord([]byte(`puts("hi"); x = "hi";`), `"hi"`, "_h", cpp(t))
	assert.Equal(t, `puts(_h); x = _h;`, string(out))
	assert.Equal(t, 2, n)
}

func TestReplaceWordDollarDependsOnDialect(t *testing.T) {
	glsl, err := dialect.Lookup("glsl")
	require.NoError(t, err)
	out, _ := subst.ReplaceWord([]byte("$foo"), "foo", "X", glsl)
	assert.Equal(t, "$X", string(out))
}

func TestSubstituteWholeWordCorrectness(t *testing.T) {
	d := cpp(t)
	m := alias.NewMap("_")
	require.NoError(t, m.Add("foobar", "bbb"))
	require.NoError(t, m.Add("foo", "aaa"))

	body := "#define foo 1\nfoo(foobar); foobar = foo;\n"
	out, st, err := subst.Substitute(context.Background(), []byte(body), []string{"foobar", "foo"}, m, d)
	require.NoError(t, err)
	assert.Equal(t, "_aaa(_bbb); _bbb = _aaa;\n", string(out))
	assert.Equal(t, subst.Stats{StrippedLines: 1, Replacements: 4}, st)
}

func TestSubstituteOrderIndependentForWholeWords(t *testing.T) {
	d := cpp(t)
	m := alias.NewMap("_")
	require.NoError(t, m.Add("foo", "aaa"))
	require.NoError(t, m.Add("foobar", "bbb"))
	out, _, err := subst.Substitute(context.Background(), []byte("foo foobar"), []string{"foo", "foobar"}, m, d)
	require.NoError(t, err)
	assert.Equal(t, "_aaa _bbb", string(out))
}

func TestSubstituteMissingAlias(t *testing.T) {
	_, _, err := subst.Substitute(context.Background(), []byte("x"), []string{"x"}, alias.NewMap("_"), cpp(t))
	require.Error(t, err)
}
