package tmio

import (
	"context"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// COTD is one Cup of the Day competition.
type COTD struct {
	ID      int
	Name    string
	Players int
	Start   *time.Time
	End     *time.Time
}

// PlayerCOTD is one page of a player's Cup of the Day history.
type PlayerCOTD struct {
	PlayerID string
	Total    int
	Results  []COTDResult
	Stats    COTDStats
}

// COTDResult is a player's result in one cup. DivRank is nil when the
// player did not play a division, Score when they did not play after
// qualifying.
type COTDResult struct {
	ID           int
	Name         string
	Timestamp    *time.Time
	Div          int
	Rank         int
	DivRank      *int
	Score        *int
	TotalPlayers int
}

// COTDStats summarizes a player's Cup of the Day career.
type COTDStats struct {
	AverageDiv     float64
	AverageDivRank float64
	AverageRank    float64
	BestOverall    BestCOTDStats
	BestPrimary    BestCOTDStats
	DivWinStreak   int
	TotalDivWins   int
	TotalWins      int
	WinStreak      int
}

// BestCOTDStats holds a player's best cup results.
type BestCOTDStats struct {
	BestRank          int
	BestRankTime      *time.Time
	BestRankDivRank   int
	BestDiv           int
	BestDivTime       *time.Time
	BestRankInDiv     int
	BestRankInDivTime *time.Time
	BestRankInDivDiv  int
}

// COTDList returns a page of recent Cup of the Day competitions.
func (c *Client) COTDList(ctx context.Context, page int) ([]COTD, error) {
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}
	d, err := c.FetchDoc(ctx, c.cotdKey(page), COTDTTL, c.url("cotd", page))
	if err != nil {
		return nil, err
	}

	list := d.Docs("competitions")
	out := make([]COTD, 0, len(list))
	for _, comp := range list {
		out = append(out, COTD{
			ID:      comp.Int("id", 0),
			Name:    markup.Strip(comp.String("name", "")),
			Players: comp.Int("players", 0),
			Start:   comp.Unix("starttime"),
			End:     comp.Unix("endtime"),
		})
	}
	return out, nil
}

// PlayerCOTD returns one page of a player's Cup of the Day results.
func (c *Client) PlayerCOTD(ctx context.Context, id string, page int) (*PlayerCOTD, error) {
	if err := errors.ValidateAccountID(id); err != nil {
		return nil, err
	}
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}
	d, err := c.FetchDoc(ctx, c.playerCOTDKey(id, page), PlayerCOTDTTL, c.url("player", id, "cotd", page))
	if err != nil {
		return nil, notFound(err, "cotd results of %s", id)
	}
	return parsePlayerCOTD(d, id), nil
}

// PlayerCOTDAll walks every page of a player's results. Between pages it
// pauses when the rate limit is nearly exhausted. On error the results
// collected so far are returned along with it.
func (c *Client) PlayerCOTDAll(ctx context.Context, id string) (*PlayerCOTD, error) {
	first, err := c.PlayerCOTD(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	all := *first
	for page := 1; len(all.Results) < all.Total; page++ {
		if err := c.throttle(ctx); err != nil {
			return &all, err
		}
		next, err := c.PlayerCOTD(ctx, id, page)
		if err != nil {
			return &all, err
		}
		if len(next.Results) == 0 {
			break
		}
		all.Results = append(all.Results, next.Results...)
	}
	return &all, nil
}

// COTD fetches a page of the player's Cup of the Day results.
func (p *Player) COTD(ctx context.Context, page int) (*PlayerCOTD, error) {
	return p.client.PlayerCOTD(ctx, p.ID, page)
}

func parsePlayerCOTD(d integrations.Doc, playerID string) *PlayerCOTD {
	cotds := d.Docs("cotds")
	p := &PlayerCOTD{
		PlayerID: playerID,
		Total:    d.Int("total", 0),
		Results:  make([]COTDResult, 0, len(cotds)),
		Stats:    parseCOTDStats(d.Doc("stats")),
	}
	for _, r := range cotds {
		p.Results = append(p.Results, COTDResult{
			ID:           r.Int("id", 0),
			Name:         markup.Strip(r.String("name", "")),
			Timestamp:    r.Time("timestamp"),
			Div:          r.Int("div", 0),
			Rank:         r.Int("rank", 0),
			DivRank:      nonZero(r.IntPtr("divrank")),
			Score:        nonZero(r.IntPtr("score")),
			TotalPlayers: r.Int("totalplayers", 0),
		})
	}
	return p
}

func parseCOTDStats(d integrations.Doc) COTDStats {
	return COTDStats{
		AverageDiv:     d.Float("avgdiv", 0),
		AverageDivRank: d.Float("avgdivrank", 0),
		AverageRank:    d.Float("avgrank", 0),
		BestOverall:    parseBestCOTDStats(d.Doc("bestoverall")),
		BestPrimary:    parseBestCOTDStats(d.Doc("bestprimary")),
		DivWinStreak:   d.Int("divwinstreak", 0),
		TotalDivWins:   d.Int("totaldivwins", 0),
		TotalWins:      d.Int("totalwins", 0),
		WinStreak:      d.Int("winstreak", 0),
	}
}

func parseBestCOTDStats(d integrations.Doc) BestCOTDStats {
	return BestCOTDStats{
		BestRank:          d.Int("bestrank", 0),
		BestRankTime:      d.Time("bestranktime"),
		BestRankDivRank:   d.Int("bestrankdivrank", 0),
		BestDiv:           d.Int("bestdiv", 0),
		BestDivTime:       d.Time("bestdivtime"),
		BestRankInDiv:     d.Int("bestrankindiv", 0),
		BestRankInDivTime: d.Time("bestrankindivtime"),
		BestRankInDivDiv:  d.Int("bestrankindivdiv", 0),
	}
}

func nonZero(p *int) *int {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}
