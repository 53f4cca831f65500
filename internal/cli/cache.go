package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/config"
	"github.com/matzehuels/tmio/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheDeleteCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response under the key prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.client(cmd.Context())
			if err != nil {
				return err
			}

			clearer, ok := tm.Cache().(cache.Clearer)
			if !ok {
				printInfo("The %s backend keeps nothing to clear", c.cfg.Cache.Backend)
				return nil
			}

			count, err := clearer.Clear(cmd.Context(), c.cfg.KeyPrefix)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s, prefix: %q", c.cfg.Cache.Backend, c.cfg.KeyPrefix)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where responses are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.BackendFile:
				dir := cfg.Cache.Dir
				if dir == "" {
					if dir, err = config.CacheDir(); err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
				}
				fmt.Fprintln(stdout, dir)
			case config.BackendRedis:
				fmt.Fprintf(stdout, "redis://%s/%d\n", cfg.Redis().Addr(), cfg.Cache.DB)
			default:
				fmt.Fprintln(stdout, cfg.Cache.Backend)
			}
			return nil
		},
	}
}

// cacheDeleteCommand creates the "cache delete" subcommand.
func (c *CLI) cacheDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove one cached response",
		Long: `Remove one cached response. The key is given without the configured
prefix, e.g. "player:5b4d42f4-c2de-407d-b367-cbff3fe817bc" or "totd:latest".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.client(cmd.Context())
			if err != nil {
				return err
			}

			key := c.cfg.KeyPrefix + args[0]
			ok, err := tm.Cache().Exists(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("look up %s: %w", key, err)
			}
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no cached entry %q", key)
			}
			if err := tm.Cache().Delete(cmd.Context(), key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			printSuccess("Deleted %s", key)
			return nil
		},
	}
}
