package emit_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srchash/internal/alias"
	"srchash/internal/classify"
	"srchash/internal/emit"
	"srchash/internal/source"
)

func sampleInput(t *testing.T) emit.Input {
	t.Helper()
	m := alias.NewMap("_")
	require.NoError(t, m.Add("main", "9f86d081"))
	require.NoError(t, m.Add("int", "60303ae2"))
	return emit.Input{
		Directives: classify.DirectiveSequence{
			{Text: "# include <stdio.h>", Line: 1},
			{Text: "#define N 3", Line: 2},
			{Text: "# include <stdio.h>", Line: 5},
		},
		Aliases: m,
		Body:    []byte("_60303ae2 _9f86d081() { }\n"),
		Marker:  '#',
	}
}

func TestWriteGolden(t *testing.T) {
	var buf bytes.Buffer
	n, err := emit.Write(&buf, sampleInput(t))
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "basic", buf.Bytes())
}

func TestWriteOrder(t *testing.T) {
	var buf bytes.Buffer
	_, err := emit.Write(&buf, sampleInput(t))
	require.NoError(t, err)
	out := buf.String()

	lastDirective := bytes.LastIndex(buf.Bytes(), []byte("# include"))
	firstDefine := bytes.Index(buf.Bytes(), []byte("#define _"))
	body := bytes.Index(buf.Bytes(), []byte("_60303ae2 _9f86d081()"))
	assert.Less(t, lastDirective, firstDefine, out)
	assert.Less(t, firstDefine, body, out)
}

func TestWriteReencodes(t *testing.T) {
	in := emit.Input{
		Body:     []byte("/* café */\n"),
		Marker:   '#',
		Encoding: source.EncodingLatin1,
	}
	var buf bytes.Buffer
	_, err := emit.Write(&buf, in)
	require.NoError(t, err)
	assert.Equal(t, []byte("/* caf\xe9 */\n"), buf.Bytes())
}

func TestWriteUnencodable(t *testing.T) {
	in := emit.Input{Body: []byte("€"), Marker: '#', Encoding: source.EncodingLatin1}
	_, err := emit.Write(&bytes.Buffer{}, in)
	require.Error(t, err)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePropagatesErrors(t *testing.T) {
	_, err := emit.Write(failWriter{}, sampleInput(t))
	require.Error(t, err)
}
