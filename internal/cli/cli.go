package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/buildinfo"
	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tessera"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tessera arranges elements into a grid by pairwise affinity",
		Long: `Tessera places the elements of a width x depth dataset one at a time into a
grid, greedily picking the insertion that best agrees with each element's
neighbours, and renders the result as SVG, PNG, JSON, text or charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configFile)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ~/.config/tessera/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache opens the configured backend. A file cache that cannot find a
// home directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		c.Logger.Debug("using redis cache")
		return cache.NewRedisCache(ctx, c.config.Cache.RedisURL)
	}
	dir := c.config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tessera/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// dimensionFlags are the flags shared by every command that generates a
// dataset.
type dimensionFlags struct {
	generator string
	width     int
	depth     int
	seed      uint64
	dataSeed  uint64
}

func (f *dimensionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.generator, "generator", "g", "", "dataset generator: palette (default), bands, random")
	cmd.Flags().IntVarP(&f.width, "width", "W", 0, "elements per column (default 16)")
	cmd.Flags().IntVarP(&f.depth, "depth", "D", 0, "number of columns (default 16)")
	cmd.Flags().Uint64VarP(&f.seed, "seed", "s", 0, "random seed (default 42)")
	cmd.Flags().Uint64Var(&f.dataSeed, "data-seed", 0, "dataset seed (default: --seed)")
}

// dimensionOptions converts the flags to pipeline options with config values filled
// in for flags that were not given.
func (c *CLI) dimensionOptions(cmd *cobra.Command, f *dimensionFlags) pipeline.Options {
	opts := pipeline.Options{
		Generator: f.generator,
		Width:     f.width,
		Depth:     f.depth,
		Seed:      f.seed,
		DataSeed:  f.dataSeed,
	}
	c.config.apply(cmd, &opts)
	return opts
}
