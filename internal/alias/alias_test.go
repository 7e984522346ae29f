package alias_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"srchash/internal/alias"
)

type fakeSummer struct {
	calls int
	fail  int
}

func (f *fakeSummer) Sum(text string) (string, error) {
	f.calls++
	if f.fail > 0 && f.calls == f.fail {
		return "", errors.New("device gone")
	}
	return fmt.Sprintf("%02d%s", f.calls, text), nil
}

func TestBuildKeepsOrder(t *testing.T) {
	m, err := alias.Build(context.Background(), []string{"foobar", "foo", "x"}, "_", &fakeSummer{}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, []alias.Entry{
		{Identifier: "foobar", Digest: "01foobar"},
		{Identifier: "foo", Digest: "02foo"},
		{Identifier: "x", Digest: "03x"},
	}, m.Entries())

	tok, ok := m.Alias("foo")
	require.True(t, ok)
	assert.Equal(t, "_02foo", tok)

	ident, ok := m.Resolve("_03x")
	require.True(t, ok)
	assert.Equal(t, "x", ident)

	_, ok = m.Alias("missing")
	assert.False(t, ok)
}

func TestBuildCallback(t *testing.T) {
	var seen []int
	_, err := alias.Build(context.Background(), []string{"a", "b"}, "_", &fakeSummer{}, func(i int, _ alias.Entry) {
		seen = append(seen, i)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestBuildStopsOnError(t *testing.T) {
	s := &fakeSummer{fail: 2}
	_, err := alias.Build(context.Background(), []string{"a", "b", "c"}, "_", s, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier 2 of 3")
	assert.Equal(t, 2, s.calls, "no retry and no further hashing")
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeSummer{}
	_, err := alias.Build(ctx, []string{"a"}, "_", s, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls)
}

func TestAddRejectsDuplicatesAndCollisions(t *testing.T) {
	m := alias.NewMap("_")
	require.NoError(t, m.Add("a", "d1"))
	require.ErrorIs(t, m.Add("a", "d2"), alias.ErrDuplicate)
	require.ErrorIs(t, m.Add("b", "d1"), alias.ErrCollision)
	// "_d1" is already an alias token, so it cannot be an identifier.
	require.ErrorIs(t, m.Add("_d1", "e5"), alias.ErrCollision)
	require.NoError(t, m.Add("_c7", "e5"))
	// ...and "_c7" is an identifier, so it cannot become an alias token.
	require.ErrorIs(t, m.Add("c", "c7"), alias.ErrCollision)
	assert.Equal(t, 2, m.Len())
}

func TestDocumentRoundTrip(t *testing.T) {
	m := alias.NewMap("_")
	require.NoError(t, m.Add("main", "abc"))
	require.NoError(t, m.Add(`"hi"`, "def"))
	doc := alias.NewDocument(m, "", "in.c", "SHA2", 16)
	require.NotEmpty(t, doc.RunID)

	path := filepath.Join(t.TempDir(), "map.msgpack")
	require.NoError(t, alias.Save(path, doc))

	loaded, err := alias.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.RunID, loaded.RunID)
	assert.Equal(t, doc.Entries, loaded.Entries)
	assert.True(t, doc.CreatedAt.Equal(loaded.CreatedAt))

	back, err := loaded.Map()
	require.NoError(t, err)
	ident, ok := back.Resolve("_def")
	require.True(t, ok)
	assert.Equal(t, `"hi"`, ident)
}

func TestDecodeRejectsUnknownSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&alias.Document{Schema: 99}))
	_, err := alias.Decode(&buf)
	require.ErrorIs(t, err, alias.ErrSchema)
}

func TestLoadMissing(t *testing.T) {
	_, err := alias.Load(filepath.Join(t.TempDir(), "none"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportFormats(t *testing.T) {
	m := alias.NewMap("_")
	require.NoError(t, m.Add("x", "00ff"))
	doc := alias.NewDocument(m, "run-1", "in.c", "MD5", 0)

	var y bytes.Buffer
	require.NoError(t, doc.WriteYAML(&y))
	var fromYAML alias.Document
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &fromYAML))
	assert.Equal(t, "run-1", fromYAML.RunID)
	assert.Equal(t, doc.Entries, fromYAML.Entries)

	var j bytes.Buffer
	require.NoError(t, doc.WriteJSON(&j))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(j.Bytes(), &fromJSON))
	assert.Equal(t, "MD5", fromJSON["algorithm"])
}
