package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

// Config represents the complete pkmgr configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Output  OutputConfig  `toml:"output"`
	Service ServiceConfig `toml:"service"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// ServiceConfig contains settings for talking to the package service.
type ServiceConfig struct {
	// CacheMount is the filesystem mount the service must be able to write
	// to. The availability probe checks it before touching the service.
	CacheMount string `toml:"cache_mount"`

	// WaitGraceMS is how long (in milliseconds) after transaction start a
	// reported wait status is suppressed in progress output.
	WaitGraceMS int `toml:"wait_grace_ms"`

	// BrowseCacheTTLSec is how long (in seconds) a browsed category list may
	// be reused before it is reloaded from the service.
	BrowseCacheTTLSec int `toml:"browse_cache_ttl_sec"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			AutoConfirm: false,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
		Service: ServiceConfig{
			CacheMount:        packagekit.DefaultCacheMount,
			WaitGraceMS:       int(packagekit.DefaultWaitGrace / time.Millisecond),
			BrowseCacheTTLSec: 300,
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// WaitGrace returns the configured wait grace period.
func (c *Config) WaitGrace() time.Duration {
	if c.Service.WaitGraceMS < 0 {
		return 0
	}
	return time.Duration(c.Service.WaitGraceMS) * time.Millisecond
}

// BrowseCacheTTL returns the configured browse cache lifetime.
func (c *Config) BrowseCacheTTL() time.Duration {
	return time.Duration(c.Service.BrowseCacheTTLSec) * time.Second
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
