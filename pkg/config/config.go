// Package config loads the funnelchart configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/funnelchart/config.toml
// (falling back to ~/.config/funnelchart/config.toml) unless a path is given:
//
//	[chart]
//	width = 800
//	height = 500
//	bottom_percent = 0.25
//	style = "outline"
//
//	[animation]
//	speed = 1.5        # multiplier of the default pace
//
//	[cache]
//	backend = "redis"  # "file", "redis" or "none"
//	redis_addr = "localhost:6379"
//
//	[settings]
//	backend = "mongo"  # "file" or "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Missing files and missing keys leave the zero value, which callers treat
// as "use the built-in default".
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/funnelchart/pkg/errors"
)

// AppName names the configuration, cache and data directories.
const AppName = "funnelchart"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Settings backends.
const (
	SettingsFile  = "file"
	SettingsMongo = "mongo"
)

// Config is the parsed configuration file.
type Config struct {
	Chart     Chart     `toml:"chart"`
	Animation Animation `toml:"animation"`
	Cache     Cache     `toml:"cache"`
	Settings  Settings  `toml:"settings"`
	Server    Server    `toml:"server"`
}

// Chart holds geometry and style defaults.
type Chart struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	BottomPercent float64 `toml:"bottom_percent"`
	Style         string  `toml:"style"`
}

// Animation holds reveal defaults.
type Animation struct {
	// Speed multiplies the default draw-in pace.
	Speed float64 `toml:"speed"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	KeyPrefix     string `toml:"key_prefix"`
}

// Settings selects and configures the document settings store.
type Settings struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache:    Cache{Backend: CacheFile},
		Settings: Settings{Backend: SettingsFile},
		Server:   Server{Addr: ":8080"},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the funnelchart directory under the XDG base directory named
// by env, falling back to ~/<fallback>.
func Dir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// Load reads the configuration at path, or at Path() when path is empty.
// A missing default file yields Default(); a missing explicit file is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return cfg, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
			}
			return cfg, nil
		}
		return cfg, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "invalid config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheNone:
	default:
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Settings.Backend {
	case "", SettingsFile, SettingsMongo:
	default:
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown settings backend %q", c.Settings.Backend)
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "chart width and height must not be negative")
	}
	if c.Chart.BottomPercent < 0 || c.Chart.BottomPercent >= 1 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "chart bottom_percent must be in [0, 1)")
	}
	if c.Animation.Speed < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "animation speed must not be negative")
	}
	return nil
}
