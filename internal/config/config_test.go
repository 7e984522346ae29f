package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srchash/internal/digest"
	"srchash/internal/driver"
	"srchash/internal/source"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "algorithm = \"md5\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDiscoverWithoutFile(t *testing.T) {
	s, err := Discover(t.TempDir(), "")
	require.NoError(t, err)
	if s.Path != "" {
		// a stray file above the temp dir; nothing to assert about defaults
		t.Skipf("found %s above the temp dir", s.Path)
	}
	cfg := driver.DefaultConfig()
	require.NoError(t, s.Apply(&cfg))
	assert.Equal(t, driver.DefaultConfig().Algorithm, cfg.Algorithm)
}

func TestApplyOnlyDefinedKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
algorithm = "sha3"
salt_size = 0
encoding = "latin1"
hex_numbers = true
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.IsSet("salt_size"))
	assert.False(t, s.IsSet("discard_size"))

	cfg := driver.DefaultConfig()
	cfg.DiscardSize = 7
	require.NoError(t, s.Apply(&cfg))

	assert.Equal(t, digest.SHA3, cfg.Algorithm)
	assert.Equal(t, 0, cfg.SaltSize, "explicit zero overrides the default")
	assert.Equal(t, 7, cfg.DiscardSize, "absent keys keep the previous value")
	assert.Equal(t, source.EncodingLatin1, cfg.Encoding)
	assert.True(t, cfg.HexNumbers)
	assert.Equal(t, "_", cfg.AliasPrefix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "algoritm = \"md5\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorContains(t, err, "algoritm")
}

func TestApplyRejectsBadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "algorithm = \"crc32\"\n")
	s, err := Load(path)
	require.NoError(t, err)
	cfg := driver.DefaultConfig()
	err = s.Apply(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)
	assert.ErrorContains(t, err, path)
}

func TestExplicitPathWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "jobs = 2\n")
	other := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(other, []byte("jobs = 9\nentropy = \"/dev/urandom\"\n"), 0o600))

	s, err := Discover(root, other)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Jobs)

	cfg := driver.DefaultConfig()
	require.NoError(t, s.Apply(&cfg))
	assert.Equal(t, "/dev/urandom", cfg.Entropy.String())
}
