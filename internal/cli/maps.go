package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
)

// mapCommand creates the "map" command.
func (c *CLI) mapCommand() *cobra.Command {
	var (
		records  int
		offset   int
		exchange bool
	)

	cmd := &cobra.Command{
		Use:   "map <uid>",
		Short: "Show a map, optionally with its leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			m, err := tm.Map(ctx, args[0])
			if err != nil {
				return err
			}

			out := struct {
				Map         *tmio.Map
				Leaderboard []tmio.LeaderboardEntry `json:",omitempty"`
				Exchange    *tmx.Map                `json:",omitempty"`
			}{Map: m}

			if records > 0 {
				if out.Leaderboard, err = m.Leaderboard(ctx, offset, records); err != nil {
					return err
				}
			}
			if exchange {
				out.Exchange, err = m.Exchange(ctx)
				if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
					return err
				}
			}

			return c.emit(out, func() {
				renderMap(m)
				if len(out.Leaderboard) > 0 {
					printNewline()
					renderLeaderboard(out.Leaderboard)
				}
				if exchange {
					printNewline()
					if out.Exchange == nil {
						printInfo("Not on trackmania.exchange")
						return
					}
					renderExchangeMap(out.Exchange)
				}
			})
		},
	}

	cmd.Flags().IntVar(&records, "leaderboard", 0, "show the top N records (at most 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "leaderboard offset")
	cmd.Flags().BoolVar(&exchange, "exchange", false, "include the trackmania.exchange record")
	return cmd
}

// totdCommand creates the "totd" command.
func (c *CLI) totdCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "totd",
		Short: "Show the track of the day",
		Example: `  tmio totd
  tmio totd --date 2024-07-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			var t *tmio.TOTD
			if date == "" {
				if tmio.InRollover(time.Now()) {
					c.Logger.Debug("inside the rollover window, bypassing the cache")
				}
				t, err = tm.LatestTOTD(ctx)
			} else {
				day, perr := time.Parse(time.DateOnly, date)
				if perr != nil {
					return errors.Wrap(errors.ErrCodeInvalidTOTDDate, perr, "date must be YYYY-MM-DD")
				}
				t, err = tm.TOTD(ctx, day)
			}
			if err != nil {
				return err
			}
			return c.emit(t, func() { renderTOTD(t) })
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to show, YYYY-MM-DD (default latest)")
	return cmd
}

// cotdCommand creates the "cotd" command.
func (c *CLI) cotdCommand() *cobra.Command {
	var (
		player string
		page   int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "cotd",
		Short: "List recent Cups of the Day, or a player's cup history",
		Example: `  tmio cotd
  tmio cotd --player Wirtual --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			if player == "" {
				cups, err := tm.COTDList(ctx, page)
				if err != nil {
					return err
				}
				return c.emit(cups, func() { renderCOTDList(cups) })
			}

			id, err := c.accountID(cmd, player)
			if err != nil {
				return err
			}

			var history *tmio.PlayerCOTD
			if all {
				prog := newProgress(loggerFromContext(ctx))
				history, err = tm.PlayerCOTDAll(ctx, id)
				if history != nil {
					prog.done(fmt.Sprintf("Fetched %d of %d cup results", len(history.Results), history.Total))
				}
			} else {
				history, err = tm.PlayerCOTD(ctx, id, page)
			}
			if err != nil {
				return err
			}
			return c.emit(history, func() { renderPlayerCOTD(history) })
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "player name or account id")
	cmd.Flags().IntVar(&page, "page", 0, "page to show")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page of the player's history")
	return cmd
}

// tmxCommand creates the "tmx" command.
func (c *CLI) tmxCommand() *cobra.Command {
	var trackmania bool

	cmd := &cobra.Command{
		Use:   "tmx <id>",
		Short: "Show a trackmania.exchange map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "tmx id must be a number, got %q", args[0])
			}
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			m, err := tm.Exchange().Map(ctx, id)
			if err != nil {
				return err
			}
			if !trackmania {
				return c.emit(m, func() { renderExchangeMap(m) })
			}

			linked, err := tmx.TrackmaniaIO[*tmio.Map](ctx, m, tm)
			if err != nil {
				return err
			}
			return c.emit(struct {
				Exchange   *tmx.Map
				Trackmania *tmio.Map
			}{m, linked}, func() {
				renderExchangeMap(m)
				printNewline()
				renderMap(linked)
			})
		},
	}

	cmd.Flags().BoolVar(&trackmania, "trackmania", false, "also show the map as known to trackmania.io")
	return cmd
}

// accountID resolves a name or account id argument.
func (c *CLI) accountID(cmd *cobra.Command, nameOrID string) (string, error) {
	tm, err := c.client(cmd.Context())
	if err != nil {
		return "", err
	}
	if tmio.IsAccountID(nameOrID) {
		return nameOrID, nil
	}
	return tm.ToAccountID(cmd.Context(), nameOrID)
}
