package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jigsaw/pkg/cache"
	"github.com/matzehuels/jigsaw/pkg/config"
	"github.com/matzehuels/jigsaw/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solve result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached solve from the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.Config.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared the %s cache", c.Config.Cache.Backend)
			if loc, err := c.cacheLocation(); err == nil && loc != "" {
				printDetail("Location: %s", loc)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the configured backend keeps its entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return fmt.Errorf("get cache location: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation describes where the configured backend stores entries:
// a directory, a database file or a Redis URL.
func (c *CLI) cacheLocation() (string, error) {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return "", nil
	case config.BackendRedis:
		return cfg.RedisURL, nil
	case config.BackendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath, nil
		}
		dir, err := cacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName+".db"), nil
	default:
		if cfg.Dir != "" {
			return cfg.Dir, nil
		}
		return cacheDir()
	}
}
