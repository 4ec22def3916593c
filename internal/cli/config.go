package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

const configFile = "config.toml"

// Config is the user config file. Zero fields mean "use the built-in
// default"; command-line flags override everything here.
//
//	width = 1024
//	format = "svg,png"
//	log_level = "debug"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
type Config struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Format   string  `toml:"format"`
	Measurer string  `toml:"measurer"`
	LogLevel string  `toml:"log_level"`

	Cache  CacheConfig  `toml:"cache"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// MongoConfig points serve at a MongoDB layout store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig holds serve defaults.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	BatchLimit int    `toml:"batch_limit"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Format: pipeline.FormatSVG,
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// LoadConfig reads path over the defaults. An empty path means the default
// location, which may be missing; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidSetting, err, "read config %s", path)
	}
	md, err := toml.Decode(string(raw), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidSetting, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidSetting, "config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidSetting, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Measurer != "" {
		if err := pipeline.ValidateMeasurer(c.Measurer); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(parseFormats(c.Format, "")); err != nil {
		return err
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidBounds, "config width and height must not be negative")
	}
	return nil
}
