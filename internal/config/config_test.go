package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/cardcraft/internal/secrets"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("CARDCRAFT_CONFIG", filepath.Join(dir, "config.toml"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, filepath.Join(home, ".local", "share", "cardcraft", "cardcraft.db"), cfg.Store.Path)
	require.Equal(t, 500*time.Millisecond, cfg.Export.SettleDelay)
	require.Equal(t, 384, cfg.Export.Width)
	require.Equal(t, 224, cfg.Export.Height)
	require.InDelta(t, 3.0, cfg.Export.Scale, 1e-9)
	require.True(t, cfg.Browser.Headless)
	require.Equal(t, "cardcraft.share", cfg.Share.Subject)
	require.Empty(t, cfg.Share.NATSURL)
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Store.Driver = "file"
	cfg.Export.SettleDelay = 250 * time.Millisecond
	cfg.Export.OpenAfter = true
	cfg.Share.NATSURL = "nats://127.0.0.1:4222"
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CARDCRAFT_STORE_DRIVER", "memory")
	t.Setenv("CARDCRAFT_EXPORT_SETTLE_DELAY", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Store.Driver)
	require.Equal(t, time.Second, cfg.Export.SettleDelay)
}

func TestLoadRejectsBadValues(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\ndriver = \"postgres\"\n"), 0o600))

	_, err := Load()
	require.ErrorContains(t, err, "store.driver")

	require.NoError(t, os.WriteFile(path, []byte("[store\n"), 0o600))
	_, err = Load()
	require.ErrorContains(t, err, "read config")
}

func TestResolveTokenOrder(t *testing.T) {
	isolate(t)
	s := ShareConfig{TokenEnv: "CARDCRAFT_TEST_TOKEN", Token: "from-config"}

	require.Equal(t, "from-config", s.ResolveToken())

	require.NoError(t, secrets.StoreToken(SecretName, "from-secrets"))
	require.Equal(t, "from-secrets", s.ResolveToken())

	t.Setenv("CARDCRAFT_TEST_TOKEN", "from-env")
	require.Equal(t, "from-env", s.ResolveToken())
}
