package tmio

import (
	"context"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// TrophyTiers is the number of trophy tiers, T1 to T9.
const TrophyTiers = 9

// PlayerTrophies is a player's trophy tally.
type PlayerTrophies struct {
	Points     int64
	Counts     [TrophyTiers]int
	Echelon    int
	LastChange *time.Time
	PlayerID   string

	client *Client
}

// Trophy returns the count for tier n, from 1 to 9.
func (t *PlayerTrophies) Trophy(n int) (int, error) {
	if err := errors.ValidateTrophyNumber(n); err != nil {
		return 0, err
	}
	return t.Counts[n-1], nil
}

// Score weights each tier by a power of ten: T1 counts 1, T2 counts 10,
// and so on up to T9 at 100,000,000.
func (t *PlayerTrophies) Score() int64 {
	var score, weight int64 = 0, 1
	for _, n := range t.Counts {
		score += int64(n) * weight
		weight *= 10
	}
	return score
}

// History returns one page of the player's trophy gains.
func (t *PlayerTrophies) History(ctx context.Context, page int) ([]TrophyGain, error) {
	return t.client.TrophyHistory(ctx, t.PlayerID, page)
}

// TrophyGain is one entry of a player's trophy history.
type TrophyGain struct {
	Type      string
	Rank      int
	Counts    []int
	Timestamp *time.Time
}

// TrophyLeaderboardEntry is one row of the global trophy ranking.
type TrophyLeaderboardEntry struct {
	PlayerID   string
	PlayerName string
	ClubTag    *string
	Zone       []PlayerZone
	Rank       int
	Score      int64

	client *Client
}

// Player fetches the full profile behind the entry.
func (e *TrophyLeaderboardEntry) Player(ctx context.Context) (*Player, error) {
	return e.client.Player(ctx, e.PlayerID)
}

// TrophyHistory returns a page of trophy gains for a player.
func (c *Client) TrophyHistory(ctx context.Context, id string, page int) ([]TrophyGain, error) {
	if err := errors.ValidateAccountID(id); err != nil {
		return nil, err
	}
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}

	d, err := c.FetchDoc(ctx, c.trophyHistoryKey(id, page), TrophyHistoryTTL, c.url("player", id, "trophies", page))
	if err != nil {
		return nil, notFound(err, "trophy history of %s", id)
	}

	gains := d.Docs("gains")
	out := make([]TrophyGain, 0, len(gains))
	for _, g := range gains {
		achievement := g.Doc("achievement")
		out = append(out, TrophyGain{
			Type:      achievement.String("trophyAchievementType", ""),
			Rank:      achievement.Int("trophyRanking", g.Int("rank", 0)),
			Counts:    g.Ints("counts"),
			Timestamp: g.Time("timestamp"),
		})
	}
	return out, nil
}

// TopTrophies returns a page of the global trophy leaderboard.
func (c *Client) TopTrophies(ctx context.Context, page int) ([]TrophyLeaderboardEntry, error) {
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}

	d, err := c.FetchDoc(ctx, c.topTrophiesKey(page), TopTrophiesTTL, c.url("top", "trophies", page))
	if err != nil {
		return nil, err
	}

	ranks := d.Docs("ranks")
	out := make([]TrophyLeaderboardEntry, 0, len(ranks))
	for _, r := range ranks {
		player := r.Doc("player")
		out = append(out, TrophyLeaderboardEntry{
			PlayerID:   player.String("id", ""),
			PlayerName: player.String("name", ""),
			ClubTag:    markup.StripPtr(player.StringPtr("tag")),
			Zone:       parseZones(player.Doc("zone"), nil),
			Rank:       r.Int("rank", 0),
			Score:      r.Int64("score", 0),
			client:     c,
		})
	}
	return out, nil
}

func parseTrophies(d integrations.Doc, playerID string) *PlayerTrophies {
	t := &PlayerTrophies{
		Points:     d.Int64("points", 0),
		Echelon:    d.Int("echelon", 0),
		LastChange: d.Time("timestamp"),
		PlayerID:   playerID,
	}
	copy(t.Counts[:], d.Ints("counts"))
	return t
}
