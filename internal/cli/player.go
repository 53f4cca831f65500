package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
)

// playerCommand creates the "player" command.
func (c *CLI) playerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "player <name|account-id>",
		Short: "Show a player's profile",
		Example: `  tmio player Wirtual
  tmio player 5b4d42f4-c2de-407d-b367-cbff3fe817bc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.client(cmd.Context())
			if err != nil {
				return err
			}

			var p *tmio.Player
			err = c.withSpinner(cmd.Context(), "Fetching player...", func() (err error) {
				p, err = tm.ResolvePlayer(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			return c.emit(p, func() { renderPlayer(p) })
		},
	}
}

// searchCommand creates the "search" command with its interactive picker.
func (c *CLI) searchCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search players by name and pick one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			results, err := tm.Search(ctx, args[0])
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return errors.New(errors.ErrCodeNotFound, "no player matches %q", args[0])
			}
			if c.asJSON || list {
				return c.emit(results, func() { renderSearch(results) })
			}

			choice := &results[0]
			if len(results) > 1 {
				model, err := tea.NewProgram(newPlayerListModel(results), tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("player picker: %w", err)
				}
				choice = model.(playerListModel).Selected
				if choice == nil {
					return nil
				}
			}

			p, err := choice.Player(ctx)
			if err != nil {
				return err
			}
			renderPlayer(p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print all matches instead of picking one")
	return cmd
}

// trophiesCommand creates the "trophies" command.
func (c *CLI) trophiesCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "trophies <name|account-id>",
		Short: "Show a player's trophy tiers and recent trophy gains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			p, err := tm.ResolvePlayer(ctx, args[0])
			if err != nil {
				return err
			}
			if p.Trophies == nil {
				return errors.New(errors.ErrCodeNotFound, "%s has no trophy data", p.Name)
			}
			gains, err := p.Trophies.History(ctx, page)
			if err != nil {
				return err
			}

			out := struct {
				Trophies *tmio.PlayerTrophies
				History  []tmio.TrophyGain
			}{p.Trophies, gains}
			return c.emit(out, func() {
				renderTrophies(p)
				if len(gains) > 0 {
					printNewline()
					renderTrophyHistory(gains)
					printNextStep("Older gains", fmt.Sprintf("tmio trophies %s --page %d", p.ID, page+1))
				}
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "trophy history page, 0 is the most recent")
	return cmd
}

// topCommand creates the "top" command and its leaderboards.
func (c *CLI) topCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show global leaderboards",
	}

	var page int
	cmd.PersistentFlags().IntVar(&page, "page", 0, "leaderboard page")

	cmd.AddCommand(&cobra.Command{
		Use:   "trophies",
		Short: "Top players by trophy points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := tm.TopTrophies(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.emit(entries, func() { renderTopTrophies(entries) })
		},
	})
	cmd.AddCommand(c.topMatchmakingCommand("matchmaking", tmio.ThreeVThree, &page))
	cmd.AddCommand(c.topMatchmakingCommand("royal", tmio.Royal, &page))

	return cmd
}

func (c *CLI) topMatchmakingCommand(use string, t tmio.MatchmakingType, page *int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Top %s matchmaking players", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := c.client(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := tm.TopMatchmaking(cmd.Context(), int(t), *page)
			if err != nil {
				return err
			}
			return c.emit(entries, func() { renderTopMatchmaking(entries) })
		},
	}
}
