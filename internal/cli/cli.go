// Package cli implements the jigsaw command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/internal/fixture"
	"github.com/matzehuels/jigsaw/pkg/buildinfo"
	"github.com/matzehuels/jigsaw/pkg/cache"
	"github.com/matzehuels/jigsaw/pkg/config"
	"github.com/matzehuels/jigsaw/pkg/errors"
	pkgio "github.com/matzehuels/jigsaw/pkg/io"
	"github.com/matzehuels/jigsaw/pkg/observability"
	"github.com/matzehuels/jigsaw/pkg/pattern"
	"github.com/matzehuels/jigsaw/pkg/pipeline"
	"github.com/matzehuels/jigsaw/pkg/tile"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jigsaw"
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
	Config *config.Config

	stderr     io.Writer
	configPath string
	verbose    bool
	logFile    io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stderr: w,
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
		Short: "Jigsaw reassembles scrambled image tiles and finds patterns in the result",
		Long: `Jigsaw reconstructs a square image from tiles that were shuffled, rotated and
mirrored, using only the pixels along their borders. It then searches the
reconstructed image for a pattern (sea monsters by default) in every
orientation and counts the pixels the pattern does not cover.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.Close() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jigsaw/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.cornersCommand())
	root.AddCommand(c.canvasCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and configures logging before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, _ := log.ParseLevel(cfg.Log.Level)
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	if cfg.Log.File != "" {
		w, closer := logWriter(c.stderr, cfg.Log)
		c.Logger.SetOutput(w)
		c.logFile = closer
	}
	if c.verbose {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the rotating log file, if any.
func (c *CLI) Close() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(backend, nil, c.Logger)
	if ttl, err := c.Config.Cache.TTLDuration(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

// newCache opens the configured backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultRedisPrefix)
	case config.BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir, err := cacheDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, appName+".db")
		}
		return cache.NewSQLiteCache(path)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Warn("caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jigsaw/).
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

// solveFlags are the flags shared by every command that runs a solve.
type solveFlags struct {
	demo        bool
	workers     int
	policy      string
	patternFile string
	noCache     bool
	refresh     bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.demo, "demo", false, "use the built-in 3x3 demo puzzle instead of a file")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "goroutines for adjacency and search (default from config)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "orientation policy when several contain the pattern: first|most")
	cmd.Flags().StringVar(&f.patternFile, "pattern", "", "file with the pattern to search for (default sea monster)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
}

// options merges the flags over the configured solve defaults.
func (c *CLI) options(f *solveFlags) (pipeline.Options, error) {
	cfg := c.Config.Solve
	opts := pipeline.Options{
		Workers: cfg.Workers,
		Policy:  cfg.PolicyValue(),
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	if f.policy != "" {
		p, err := pattern.ParsePolicy(f.policy)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}

	var err error
	if f.patternFile != "" {
		opts.Pattern, err = pkgio.ImportPattern(f.patternFile)
	} else {
		opts.Pattern, err = cfg.PatternOrDefault()
	}
	return opts, err
}

// loadTiles reads the tile file named by args, or the demo puzzle.
func loadTiles(args []string, demo bool) (*tile.Store, error) {
	switch {
	case demo && len(args) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "--demo takes no tile file")
	case demo:
		return fixture.Demo(), nil
	case len(args) == 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "a tile file is required (or use --demo)")
	default:
		return pkgio.ImportTiles(args[0])
	}
}

// checkOutput validates an optional output path flag.
func checkOutput(path string) error {
	if path == "" {
		return nil
	}
	return errors.ValidateOutputPath(path)
}
