package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treegen/pkg/errors"
)

// Cache backends selectable in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

const defaultServerAddr = ":8080"

// Config is the optional config file, config.toml in the config directory.
//
//	max_depth = 256
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	compress = true
//	ttl = "24h"
//
//	[server]
//	addr = ":9000"
type Config struct {
	// MaxDepth bounds container nesting when decoding raw blobs.
	// Zero means the codec default.
	MaxDepth int `toml:"max_depth"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the tree cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	Compress      bool     `toml:"compress"`
	TTL           duration `toml:"ttl"`
}

// ServerConfig configures "treegen serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration is a time.Duration written as a Go duration string.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}

// loadConfig reads the config file at path over the defaults. An empty
// path means the default location, where a missing file is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	} else if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return defaultConfig(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown config key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks that the selected backend is usable.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_depth must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir != "" {
			return errors.ValidatePath(c.Cache.Dir)
		}
	case BackendNone:
	case BackendRedis:
		return errors.ValidateStoreURI("redis", c.Cache.RedisAddr)
	case BackendMongo:
		if err := errors.ValidateStoreURI("mongodb", c.Cache.MongoURI); err != nil {
			return err
		}
		return errors.ValidateIdentifier("mongo database", c.Cache.MongoDatabase)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis, mongo, or none)", c.Cache.Backend)
	}
	return nil
}
