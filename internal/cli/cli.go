// Package cli implements the tmio command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/pkg/buildinfo"
	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/config"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// pingTimeout bounds the Redis reachability check at startup.
	pingTimeout = 2 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout is where command results go. Logs and spinners use stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Flags shared by every command.
	configPath string
	userAgent  string
	backend    string
	noCache    bool
	asJSON     bool

	// API roots, overridden in tests.
	baseURL     string
	exchangeURL string

	once    sync.Once
	cfg     config.Config
	tm      *tmio.Client
	backing cache.Cache
	err     error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		baseURL:     tmio.BaseURL,
		exchangeURL: tmx.BaseURL,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tmio",
		Short: "tmio queries trackmania.io and trackmania.exchange",
		Long: `tmio is a read-only client for the trackmania.io and trackmania.exchange APIs.
Responses are cached in Redis (or a file, memory or no cache) so repeated
lookups stay within the upstream rate limits.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tmio/config.toml)")
	flags.StringVar(&c.userAgent, "user-agent", "", "user agent sent to trackmania.io (overrides config)")
	flags.StringVar(&c.backend, "backend", "", "cache backend: redis, file, memory or none (overrides config)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching for this invocation")
	flags.BoolVar(&c.asJSON, "json", false, "print results as JSON")

	root.AddCommand(c.playerCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.trophiesCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.mapCommand())
	root.AddCommand(c.totdCommand())
	root.AddCommand(c.cotdCommand())
	root.AddCommand(c.adsCommand())
	root.AddCommand(c.clubCommand())
	root.AddCommand(c.roomCommand())
	root.AddCommand(c.campaignCommand())
	root.AddCommand(c.tmxCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Client
// =============================================================================

// loadConfig resolves the config file, environment and flags.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if c.userAgent != "" {
		cfg.UserAgent = c.userAgent
	}
	if c.backend != "" {
		cfg.Cache.Backend = c.backend
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, nil
}

// client builds the shared trackmania.io client on first use.
func (c *CLI) client(ctx context.Context) (*tmio.Client, error) {
	c.once.Do(func() {
		c.cfg, c.err = c.loadConfig()
		if c.err != nil {
			return
		}
		if c.err = c.cfg.Validate(); c.err != nil {
			return
		}
		c.backing, c.err = c.openCache(ctx)
		if c.err != nil {
			return
		}

		transport := httputil.NewTransport(c.cfg.UserAgent, httputil.NewRateLimit())
		c.tm = tmio.NewClient(transport, c.backing, c.cfg.KeyPrefix)
		c.tm.SetBaseURL(c.baseURL)

		exchange := tmx.NewClient(transport, c.backing, c.cfg.KeyPrefix)
		exchange.SetBaseURL(c.exchangeURL)
		c.tm.SetExchange(exchange)

		c.Logger.Debug("client ready", "backend", c.cfg.Cache.Backend, "prefix", c.cfg.KeyPrefix)
	})
	return c.tm, c.err
}

// openCache opens the configured backend. An unreachable Redis degrades to
// no caching rather than failing every command.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	backend, err := c.cfg.OpenCache()
	if err != nil {
		return nil, err
	}

	rc, ok := backend.(*cache.RedisCache)
	if !ok {
		return backend, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		c.Logger.Warn("redis unreachable, caching disabled", "addr", c.cfg.Redis().Addr(), "error", err)
		_ = rc.Close()
		return cache.NewNullCache(), nil
	}
	return rc, nil
}

// Close releases the cache backend, if one was opened.
func (c *CLI) Close() error {
	if c.backing == nil {
		return nil
	}
	err := c.backing.Close()
	c.backing = nil
	return err
}
