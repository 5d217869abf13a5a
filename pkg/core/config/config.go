package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "LEITSTAND_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Router  RouterConfig  `toml:"router"`
	I18n    I18nConfig    `toml:"i18n"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name"`
	DataDir   string `toml:"data_dir"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
}

// RouterConfig holds navigation settings
type RouterConfig struct {
	DefaultRoute string   `toml:"default_route"`
	Debounce     Duration `toml:"debounce"`
	Whitelist    []string `toml:"whitelist"`
}

// I18nConfig holds translation settings
type I18nConfig struct {
	DefaultLanguage string `toml:"default_language"`
	LocalesDir      string `toml:"locales_dir"`
	Watch           bool   `toml:"watch"`
}

// StorageConfig holds the persisted UI state settings
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// UIConfig holds terminal frame settings
type UIConfig struct {
	Title        string `toml:"title"`
	SidebarWidth int    `toml:"sidebar_width"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.New("config file not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, mdwerror.New("unknown config keys").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path).
			WithDetail("keys", strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.expandEnvVars()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by LEITSTAND_CONFIG, else the first file
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "leitstand", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "leitstand"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.LogFile == "" {
		c.General.LogFile = filepath.Join(c.General.DataDir, "leitstand.log")
	}

	// Router
	if c.Router.DefaultRoute == "" {
		c.Router.DefaultRoute = "/home"
	}
	if c.Router.Debounce.Duration == 0 {
		c.Router.Debounce.Duration = 25 * time.Millisecond
	}
	if len(c.Router.Whitelist) == 0 {
		c.Router.Whitelist = []string{"/home", "/status", "/basic", "/advanced", "/management", "/application"}
	}

	// I18n
	if c.I18n.DefaultLanguage == "" {
		c.I18n.DefaultLanguage = "en"
	}

	// Storage
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.General.DataDir, "leitstand.db")
	}
	if c.Storage.Namespace == "" {
		c.Storage.Namespace = "leitstand"
	}

	// UI
	if c.UI.Title == "" {
		c.UI.Title = "Leitstand"
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = 28
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.I18n.LocalesDir = os.ExpandEnv(c.I18n.LocalesDir)
	c.Storage.Path = os.ExpandEnv(c.Storage.Path)
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return mdwerror.New(msg).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if c.Router.Debounce.Duration < 0 {
		return invalid("router.debounce", c.Router.Debounce.String(), "debounce must not be negative")
	}
	for _, entry := range c.Router.Whitelist {
		if !strings.HasPrefix(entry, "/") || entry == "/" {
			return invalid("router.whitelist", entry, "whitelist entries must be absolute section paths")
		}
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "sqlite", "memory":
	default:
		return invalid("storage.backend", c.Storage.Backend, "storage backend must be sqlite or memory")
	}
	if c.UI.SidebarWidth < 10 {
		return invalid("ui.sidebar_width", c.UI.SidebarWidth, "sidebar width must be at least 10")
	}
	return nil
}
