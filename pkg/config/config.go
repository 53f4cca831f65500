// Package config loads tmio settings.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Defaults from [Default]
//  2. The TOML file at [Path], when it exists
//  3. TMIO_* environment variables
//
// The CLI applies its flags on top. Call [Config.Validate] before building
// a client: trackmania.io refuses anonymous requests, so a user agent is
// mandatory.
//
// Example config.toml:
//
//	user_agent = "my-bot (discord: someone)"
//	key_prefix = "tmio:"
//
//	[cache]
//	backend = "redis"
//	host = "127.0.0.1"
//	port = 6379
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "tmio"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TMIO_"

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config holds every setting shared by the CLI and the local API.
type Config struct {
	// UserAgent identifies the application to trackmania.io. Required.
	UserAgent string `toml:"user_agent" env:"USER_AGENT"`

	// KeyPrefix namespaces cache keys in a shared Redis.
	KeyPrefix string `toml:"key_prefix" env:"KEY_PREFIX"`

	Cache  CacheConfig  `toml:"cache" envPrefix:"CACHE_"`
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" env:"BACKEND"`
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	DB       int    `toml:"db" env:"DB"`
	Password string `toml:"password" env:"PASSWORD"`

	// Dir is the FileCache root. Empty means the XDG cache directory.
	Dir string `toml:"dir" env:"DIR"`
}

// ServerConfig configures "tmio serve".
type ServerConfig struct {
	Addr         string        `toml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// Default returns the built-in settings: a local Redis on the default port
// and no user agent.
func Default() Config {
	return Config{
		KeyPrefix: "tmio:",
		Cache: CacheConfig{
			Backend: BackendRedis,
			Host:    "127.0.0.1",
			Port:    6379,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Path returns the config file location,
// $XDG_CONFIG_HOME/tmio/config.toml or the platform equivalent.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// CacheDir returns the default FileCache root, $XDG_CACHE_HOME/tmio.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load builds a Config from defaults, the file at path and the
// environment. A missing file is not an error; an empty path skips the
// file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "read %s", path)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfiguration, err, "read environment")
	}
	return cfg, nil
}

// Validate reports the first setting that prevents building a client.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return errors.New(errors.ErrCodeConfiguration,
			"no user agent configured: set user_agent in the config file or %sUSER_AGENT", EnvPrefix)
	}
	switch c.Cache.Backend {
	case BackendRedis:
		if c.Cache.Port < 1 || c.Cache.Port > 65535 {
			return errors.New(errors.ErrCodeConfiguration, "invalid cache port %d", c.Cache.Port)
		}
		if c.Cache.DB < 0 {
			return errors.New(errors.ErrCodeConfiguration, "invalid cache db %d", c.Cache.DB)
		}
	case BackendFile, BackendMemory, BackendNone:
	default:
		return errors.New(errors.ErrCodeConfiguration,
			"unknown cache backend %q (want redis, file, memory or none)", c.Cache.Backend)
	}
	return nil
}

// Redis returns the connection settings for [cache.NewRedisCache].
func (c Config) Redis() cache.RedisConfig {
	r := cache.DefaultRedisConfig()
	r.Host = c.Cache.Host
	r.Port = c.Cache.Port
	r.DB = c.Cache.DB
	r.Password = c.Cache.Password
	return r
}

// OpenCache creates the configured backend. Redis is not contacted until
// the first request.
func (c Config) OpenCache() (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		return cache.NewRedisCache(c.Redis()), nil
	case BackendFile:
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = CacheDir(); err != nil {
				return nil, fmt.Errorf("locate cache dir: %w", err)
			}
		}
		return cache.NewFileCache(dir)
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendNone:
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeConfiguration, "unknown cache backend %q", c.Cache.Backend)
}

// Encode renders c as TOML with the Redis password masked.
func (c Config) Encode() (string, error) {
	if c.Cache.Password != "" {
		c.Cache.Password = "********"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
