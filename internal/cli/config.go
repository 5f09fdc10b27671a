package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the user configuration read from config.toml. Zero values mean
// "not set"; flags given on the command line always win.
//
//	generator = "bands"
//	width     = 24
//	formats   = ["svg", "png"]
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Generator  string   `toml:"generator"`
	Width      int      `toml:"width"`
	Depth      int      `toml:"depth"`
	Seed       uint64   `toml:"seed"`
	Formats    []string `toml:"formats"`
	CellSize   float64  `toml:"cell_size"`
	Scale      float64  `toml:"scale"`
	Labels     bool     `toml:"labels"`
	Background string   `toml:"background"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"` // file (default), redis or none
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// ServerConfig configures "tessera serve".
type ServerConfig struct {
	Addr      string `toml:"addr"`
	KeyPrefix string `toml:"key_prefix"`
}

// configPath returns the config file location using XDG standard
// (~/.config/tessera/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields an empty config; a missing explicit file is an
// error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be %s, %s or %s, got %q", backendFile, backendRedis, backendNone, c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	if c.Generator != "" {
		if err := pipeline.ValidateGenerator(c.Generator); err != nil {
			return err
		}
	}
	return pipeline.ValidateFormats(c.Formats)
}

// apply copies config values into opts for every flag the user did not set
// explicitly on cmd.
func (c *Config) apply(cmd *cobra.Command, opts *pipeline.Options) {
	unset := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f == nil || !f.Changed
	}
	if c.Generator != "" && unset("generator") {
		opts.Generator = c.Generator
	}
	if c.Width != 0 && unset("width") {
		opts.Width = c.Width
	}
	if c.Depth != 0 && unset("depth") {
		opts.Depth = c.Depth
	}
	if c.Seed != 0 && unset("seed") {
		opts.Seed = c.Seed
	}
	if len(c.Formats) > 0 && unset("format") {
		opts.Formats = c.Formats
	}
	if c.CellSize != 0 && unset("cell-size") {
		opts.CellSize = c.CellSize
	}
	if c.Scale != 0 && unset("scale") {
		opts.Scale = c.Scale
	}
	if c.Labels && unset("labels") {
		opts.Labels = true
	}
	if c.Background != "" && unset("background") {
		opts.Background = c.Background
	}
}
