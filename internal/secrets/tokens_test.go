package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	_, err := FetchToken("nats")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, StoreToken(" NATS ", "s3cret"))
	tok, err := FetchToken("nats")
	require.NoError(t, err)
	require.Equal(t, "s3cret", tok)

	v, err := DefaultVault()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cardcraft", "tokens.json"), v.Path)
	raw, err := os.ReadFile(v.Path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "s3cret")
	info, err := os.Stat(v.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, DeleteToken("nats"))
	_, err = FetchToken("nats")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, DeleteToken("nats"))
}

func TestVaultKeepsOtherTokens(t *testing.T) {
	t.Parallel()

	v := Vault{Path: filepath.Join(t.TempDir(), "nested", "tokens.json")}
	require.NoError(t, v.Put("nats", "one"))
	require.NoError(t, v.Put("other", "two"))
	require.NoError(t, v.Put("nats", "three"))
	require.NoError(t, v.Delete("other"))

	tok, err := v.Get("nats")
	require.NoError(t, err)
	require.Equal(t, "three", tok)
	_, err = v.Get("other")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVaultRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tokens":{"nats":"bm90LXNlYWxlZA=="}}`), 0o600))
	_, err := Vault{Path: path}.Get("nats")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	require.Error(t, Vault{Path: path}.Put("nats", "x"))
}

func TestTokenNameRequired(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.ErrorIs(t, StoreToken("  ", "x"), errNameRequired)
	_, err := FetchToken("")
	require.ErrorIs(t, err, errNameRequired)
	require.ErrorIs(t, DeleteToken(""), errNameRequired)
}
