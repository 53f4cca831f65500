package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a local read-only JSON API",
		Long: `Serve a local read-only JSON API backed by the same client and cache.

Routes:
  GET /players/{id}             profile by account id or name
  GET /players/{id}/trophies    trophy history (?page=)
  GET /maps/{uid}               map info
  GET /maps/{uid}/leaderboard   records (?offset=&length=)
  GET /totd/latest              latest track of the day
  GET /totd/{date}              track of the day on YYYY-MM-DD
  GET /ads                      in-game advertisements
  GET /tmx/{id}                 trackmania.exchange map
  GET /healthz                  liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			cfg := server.Config{
				Addr:         c.cfg.Server.Addr,
				ReadTimeout:  c.cfg.Server.ReadTimeout,
				WriteTimeout: c.cfg.Server.WriteTimeout,
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(tm, c.Logger).Serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}
