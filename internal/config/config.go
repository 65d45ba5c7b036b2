package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jask/cardcraft/internal/secrets"
)

// Config holds application configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Export  ExportConfig  `mapstructure:"export"`
	Browser BrowserConfig `mapstructure:"browser"`
	Share   ShareConfig   `mapstructure:"share"`
	Log     LogConfig     `mapstructure:"log"`
}

// StoreConfig selects where cards are kept.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, file or memory
	Path   string `mapstructure:"path"`   // sqlite database file
	Dir    string `mapstructure:"dir"`    // file backend directory
}

// ExportConfig controls PNG output.
type ExportConfig struct {
	Dir         string        `mapstructure:"dir"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	Width       int           `mapstructure:"width"`
	Height      int           `mapstructure:"height"`
	Scale       float64       `mapstructure:"scale"`
	OpenAfter   bool          `mapstructure:"open_after"`
}

// BrowserConfig locates the headless browser used for rendering.
type BrowserConfig struct {
	Bin        string `mapstructure:"bin"`
	ControlURL string `mapstructure:"control_url"`
	Headless   bool   `mapstructure:"headless"`
}

// ShareConfig configures the NATS share surface. An empty NATSURL disables it.
type ShareConfig struct {
	NATSURL  string `mapstructure:"nats_url"`
	Subject  string `mapstructure:"subject"`
	TokenEnv string `mapstructure:"token_env"`
	Token    string `mapstructure:"token"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SecretName is the secrets entry holding the share token.
const SecretName = "nats"

// Drivers lists the accepted store drivers.
var Drivers = []string{"sqlite", "file", "memory"}

// Load reads configuration from file and env. Env var overrides use prefix CARDCRAFT_.
// A .env file in the working directory is loaded first.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("CARDCRAFT_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CARDCRAFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", filepath.Join(home, ".local", "share", "cardcraft", "cardcraft.db"))
	v.SetDefault("store.dir", filepath.Join(home, ".local", "share", "cardcraft", "cards"))
	v.SetDefault("export.dir", filepath.Join(home, "Downloads"))
	v.SetDefault("export.settle_delay", "500ms")
	v.SetDefault("export.width", 384)
	v.SetDefault("export.height", 224)
	v.SetDefault("export.scale", 3.0)
	v.SetDefault("export.open_after", false)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.control_url", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("share.nats_url", "")
	v.SetDefault("share.subject", "cardcraft.share")
	v.SetDefault("share.token_env", "CARDCRAFT_NATS_TOKEN")
	v.SetDefault("share.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "cardcraft", "cardcraft.log"))
}

// Validate rejects values the rest of the app cannot work with.
func (c Config) Validate() error {
	known := false
	for _, d := range Drivers {
		if c.Store.Driver == d {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("store.driver %q: want one of %s", c.Store.Driver, strings.Join(Drivers, ", "))
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 || c.Export.Scale <= 0 {
		return fmt.Errorf("export size %dx%d@%g must be positive", c.Export.Width, c.Export.Height, c.Export.Scale)
	}
	if c.Export.SettleDelay < 0 {
		return fmt.Errorf("export.settle_delay must not be negative")
	}
	return nil
}

// ResolveToken returns the NATS token from the environment, then the secrets
// file, then the config file.
func (s ShareConfig) ResolveToken() string {
	if s.TokenEnv != "" {
		if tok := strings.TrimSpace(os.Getenv(s.TokenEnv)); tok != "" {
			return tok
		}
	}
	if tok, err := secrets.FetchToken(SecretName); err == nil && tok != "" {
		return tok
	}
	return s.Token
}

// Path returns the config file location used by Load and Save.
func Path() string {
	if p := os.Getenv("CARDCRAFT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "cardcraft")
}

// Save writes the provided config to disk, creating the config directory if needed.
// The share token is written in plain text; prefer the env var or the secrets file.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.dir", cfg.Store.Dir)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.settle_delay", cfg.Export.SettleDelay.String())
	v.Set("export.width", cfg.Export.Width)
	v.Set("export.height", cfg.Export.Height)
	v.Set("export.scale", cfg.Export.Scale)
	v.Set("export.open_after", cfg.Export.OpenAfter)
	v.Set("browser.bin", cfg.Browser.Bin)
	v.Set("browser.control_url", cfg.Browser.ControlURL)
	v.Set("browser.headless", cfg.Browser.Headless)
	v.Set("share.nats_url", cfg.Share.NATSURL)
	v.Set("share.subject", cfg.Share.Subject)
	v.Set("share.token_env", cfg.Share.TokenEnv)
	v.Set("share.token", cfg.Share.Token)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
