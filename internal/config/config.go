// Package config handles configuration loading and validation for scorekit.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Environment overrides.
const (
	EnvStoreDir = "SCOREKIT_STORE_DIR"
	EnvLogLevel = "SCOREKIT_LOG_LEVEL"
)

// Config holds the complete scorekit configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version"`

	// Store configures the content-addressed score store.
	Store StoreConfig `toml:"store"`

	// Catalog configures the SQLite catalog of stored scores.
	Catalog CatalogConfig `toml:"catalog"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging"`

	// Linker configures how parsed objects are placed in the model.
	Linker LinkerConfig `toml:"linker"`
}

// StoreConfig holds content store configuration.
type StoreConfig struct {
	// Dir is the root directory of the blob store.
	Dir string `toml:"dir"`

	// Compress stores blobs xz compressed.
	Compress bool `toml:"compress"`

	// ReadOnly rejects every write to the store.
	ReadOnly bool `toml:"read_only"`

	// CacheSize is the number of parsed documents kept in memory (0 = no limit).
	CacheSize int `toml:"cache_size"`
}

// CatalogConfig holds catalog configuration.
type CatalogConfig struct {
	// Path is the path to the SQLite database file.
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is json or text.
	Format string `toml:"format"`
}

// LinkerConfig holds linker options.
type LinkerConfig struct {
	// Strict reports the number of source elements the linker could not
	// place in the model.
	Strict bool `toml:"strict"`
}

// DataDir returns the base scorekit directory.
func DataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".scorekit")
	}
	return ".scorekit"
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Version: Version,
		Store: StoreConfig{
			Dir:       filepath.Join(dir, "store"),
			Compress:  true,
			CacheSize: 32,
		},
		Catalog: CatalogConfig{
			Path: filepath.Join(dir, "catalog.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from the specified path. If the file doesn't
// exist, the default configuration is returned. Environment overrides are
// applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.NewIO("read", path, err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, &errors.ParseError{Format: "toml", Path: path, Message: err.Error(), Err: err}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.NewIO("create directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Variables are prefixed with SCOREKIT_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvStoreDir); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Version < 1 || c.Version > Version {
		return errors.NewValidation("version",
			fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version))
	}
	if strings.TrimSpace(c.Store.Dir) == "" {
		return errors.NewValidation("store.dir", "must not be empty")
	}
	if c.Store.CacheSize < 0 {
		return errors.NewValidation("store.cache_size", "must not be negative")
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.NewValidation("catalog.path", "must not be empty")
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return errors.NewValidation("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if _, ok := logging.ParseFormat(c.Logging.Format); !ok {
		return errors.NewValidation("logging.format", fmt.Sprintf("unknown format %q", c.Logging.Format))
	}
	return nil
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// LogFormat returns the parsed logging format.
func (c *Config) LogFormat() logging.Format {
	format, _ := logging.ParseFormat(c.Logging.Format)
	return format
}
