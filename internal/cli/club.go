package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
)

// intArgs parses positional arguments as ids.
func intArgs(args []string, names ...string) ([]int, error) {
	ids := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", names[i], a)
		}
		ids[i] = n
	}
	return ids, nil
}

// clubCommand creates the "club" command.
func (c *CLI) clubCommand() *cobra.Command {
	var (
		members bool
		page    int
	)

	cmd := &cobra.Command{
		Use:   "club <id>",
		Short: "Show a club, optionally with its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids, err := intArgs(args, "club id")
			if err != nil {
				return err
			}
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			cl, err := tm.Club(ctx, ids[0])
			if err != nil {
				return err
			}
			if !members {
				return c.emit(cl, func() { renderClub(cl) })
			}

			list, err := cl.Members(ctx, page)
			if err != nil {
				return err
			}
			return c.emit(struct {
				Club    *tmio.Club
				Members []tmio.ClubMember
			}{cl, list}, func() {
				renderClub(cl)
				printNewline()
				renderMembers(list)
			})
		},
	}

	cmd.Flags().BoolVar(&members, "members", false, "list club members")
	cmd.Flags().IntVar(&page, "page", 0, "member page")
	return cmd
}

// roomCommand creates the "room" command.
func (c *CLI) roomCommand() *cobra.Command {
	var popular bool
	var page int

	cmd := &cobra.Command{
		Use:   "room <club-id> <room-id>",
		Short: "Show a club room, or the most popular rooms",
		Example: `  tmio room 9 18
  tmio room --popular`,
		Args: func(cmd *cobra.Command, args []string) error {
			if popular {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			if popular {
				rooms, err := tm.PopularRooms(ctx, page)
				if err != nil {
					return err
				}
				return c.emit(rooms, func() {
					rows := make([][]string, len(rooms))
					for i, r := range rooms {
						rows[i] = []string{itoa(r.ClubID), itoa(r.ID), r.Name, fmt.Sprintf("%d/%d", r.PlayerCount, r.MaxPlayers)}
					}
					printTable([]string{"Club", "Room", "Name", "Players"}, rows, 0, 1, 3)
				})
			}

			ids, err := intArgs(args, "club id", "room id")
			if err != nil {
				return err
			}
			r, err := tm.Room(ctx, ids[0], ids[1])
			if err != nil {
				return err
			}
			return c.emit(r, func() { renderRoom(r) })
		},
	}

	cmd.Flags().BoolVar(&popular, "popular", false, "list the most popular rooms")
	cmd.Flags().IntVar(&page, "page", 0, "popular rooms page")
	return cmd
}

// campaignCommand creates the "campaign" command.
func (c *CLI) campaignCommand() *cobra.Command {
	var (
		club    int
		records int
		list    bool
		page    int
	)

	cmd := &cobra.Command{
		Use:   "campaign [id]",
		Short: "Show a campaign; without an id, the current official season",
		Example: `  tmio campaign
  tmio campaign 12345 --club 9
  tmio campaign --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			if list {
				summaries, err := tm.Campaigns(ctx, page)
				if err != nil {
					return err
				}
				return c.emit(summaries, func() {
					rows := make([][]string, len(summaries))
					for i, s := range summaries {
						rows[i] = []string{itoa(s.ClubID), itoa(s.ID), s.Name, itoa(s.MapCount)}
					}
					printTable([]string{"Club", "ID", "Campaign", "Maps"}, rows, 0, 1, 3)
				})
			}

			var camp *tmio.Campaign
			if len(args) == 0 {
				camp, err = tm.CurrentSeason(ctx)
			} else {
				ids, perr := intArgs(args, "campaign id")
				if perr != nil {
					return perr
				}
				camp, err = tm.Campaign(ctx, club, ids[0])
			}
			if err != nil {
				return err
			}

			var ranking []tmio.CampaignLeaderboardEntry
			if records > 0 {
				if ranking, err = camp.Leaderboard(ctx, 0, records); err != nil {
					return err
				}
			}
			return c.emit(struct {
				Campaign    *tmio.Campaign
				Leaderboard []tmio.CampaignLeaderboardEntry `json:",omitempty"`
			}{camp, ranking}, func() {
				renderCampaign(camp)
				if len(ranking) > 0 {
					printNewline()
					renderCampaignLeaderboard(ranking)
				}
			})
		},
	}

	cmd.Flags().IntVar(&club, "club", 0, "club id, 0 for official campaigns")
	cmd.Flags().IntVar(&records, "leaderboard", 0, "show the top N players of the campaign")
	cmd.Flags().BoolVar(&list, "list", false, "list campaigns instead")
	cmd.Flags().IntVar(&page, "page", 0, "campaign list page")
	return cmd
}

// adsCommand creates the "ads" command.
func (c *CLI) adsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ads [uid]",
		Short: "List in-game advertisements, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tm, err := c.client(ctx)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				ad, err := tm.Ad(ctx, args[0])
				if err != nil {
					return err
				}
				return c.emit(ad, func() {
					printTitle(ad.Name, ad.UID)
					printKeyValue("Type", ad.Type)
					printKeyValue("Link", ad.URL)
					printKeyValue("Image 16x9", ad.Img16x9)
					printKeyValue("Media", ad.Media)
				})
			}

			ads, err := tm.Ads(ctx)
			if err != nil {
				return err
			}
			return c.emit(ads, func() { renderAds(ads) })
		},
	}
}
