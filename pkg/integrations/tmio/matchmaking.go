package tmio

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
	"github.com/matzehuels/tmio/pkg/observability"
)

// MatchmakingType identifies a matchmaking queue by its trackmania.io type id.
type MatchmakingType int

// Known matchmaking queues.
const (
	ThreeVThree MatchmakingType = 2
	Royal       MatchmakingType = 3
)

// String returns the queue name.
func (t MatchmakingType) String() string {
	switch t {
	case ThreeVThree:
		return "3v3"
	case Royal:
		return "Royal"
	default:
		return "unknown"
	}
}

// ParseMatchmakingType validates a group id.
func ParseMatchmakingType(group int) (MatchmakingType, error) {
	if err := errors.ValidateMatchmakingGroup(group); err != nil {
		return 0, err
	}
	return MatchmakingType(group), nil
}

var divisionLabels = [...]string{
	"Bronze 3", "Bronze 2", "Bronze 1",
	"Silver 3", "Silver 2", "Silver 1",
	"Gold 3", "Gold 2", "Gold 1",
	"Master 3", "Master 2", "Master 1",
	"Trackmaster",
}

// DivisionLabel returns the name of division 1 to 13, or "" when out of range.
func DivisionLabel(division int) string {
	if division < 1 || division > len(divisionLabels) {
		return ""
	}
	return divisionLabels[division-1]
}

// Matchmaking holds a player's standing in each queue. A slot is nil when
// the player has not played that queue.
type Matchmaking struct {
	ThreeVThree *PlayerMatchmaking
	Royal       *PlayerMatchmaking
}

func (m *Matchmaking) bind(c *Client) {
	if m.ThreeVThree != nil {
		m.ThreeVThree.client = c
	}
	if m.Royal != nil {
		m.Royal.client = c
	}
}

// PlayerMatchmaking is a player's standing in one matchmaking queue.
type PlayerMatchmaking struct {
	Type        MatchmakingType
	TypeName    string
	Rank        int
	Score       int
	Progression int
	Division    int
	MinPoints   int
	MaxPoints   int
	Progress    float64
	PlayerID    string

	client *Client
}

// DivisionLabel returns the human-readable division name.
func (m *PlayerMatchmaking) DivisionLabel() string { return DivisionLabel(m.Division) }

// History returns one page of the player's matches in this queue.
func (m *PlayerMatchmaking) History(ctx context.Context, page int) ([]MatchResult, error) {
	return m.client.MatchHistory(ctx, m.PlayerID, m.Type, page)
}

// MatchResult is one played match.
type MatchResult struct {
	AfterScore int
	Leave      bool
	LiveID     string
	MVP        bool
	Win        bool
	StartTime  *time.Time
	PlayerID   string
}

// MatchmakingLeaderboardEntry is one row of a queue's top ranking.
type MatchmakingLeaderboardEntry struct {
	PlayerID   string
	PlayerName string
	ClubTag    *string
	Zone       []PlayerZone
	Rank       int
	Score      int
	Division   int

	client *Client
}

// Player fetches the full profile behind the entry.
func (e *MatchmakingLeaderboardEntry) Player(ctx context.Context) (*Player, error) {
	return e.client.Player(ctx, e.PlayerID)
}

// TopMatchmaking returns a page of the ranking for group 2 (3v3) or 3 (Royal).
func (c *Client) TopMatchmaking(ctx context.Context, group, page int) ([]MatchmakingLeaderboardEntry, error) {
	t, err := ParseMatchmakingType(group)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}

	d, err := c.FetchDoc(ctx, c.topMatchmakingKey(t, page), TopMatchmakingTTL, c.url("top", "matchmaking", int(t), page))
	if err != nil {
		return nil, err
	}

	ranks := d.Docs("ranks")
	out := make([]MatchmakingLeaderboardEntry, 0, len(ranks))
	for _, r := range ranks {
		player := r.Doc("player")
		out = append(out, MatchmakingLeaderboardEntry{
			PlayerID:   player.String("id", r.String("accountid", "")),
			PlayerName: player.String("name", ""),
			ClubTag:    markup.StripPtr(player.StringPtr("tag")),
			Zone:       parseZones(player.Doc("zone"), nil),
			Rank:       r.Int("rank", 0),
			Score:      r.Int("score", 0),
			Division:   r.Doc("division").Int("position", 0),
			client:     c,
		})
	}
	return out, nil
}

// MatchHistory returns a page of a player's matches in queue t.
func (c *Client) MatchHistory(ctx context.Context, id string, t MatchmakingType, page int) ([]MatchResult, error) {
	if err := errors.ValidateAccountID(id); err != nil {
		return nil, err
	}
	if _, err := ParseMatchmakingType(int(t)); err != nil {
		return nil, err
	}
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}

	d, err := c.FetchDoc(ctx, c.matchHistoryKey(id, t, page), MatchHistoryTTL, c.url("player", id, "matches", int(t), page))
	if err != nil {
		return nil, notFound(err, "match history of %s", id)
	}

	matches := d.Docs("matches")
	out := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchResult{
			AfterScore: m.Int("afterscore", 0),
			Leave:      m.Bool("leave", false),
			LiveID:     m.String("lid", ""),
			MVP:        m.Bool("mvp", false),
			Win:        m.Bool("win", false),
			StartTime:  m.Time("starttime"),
			PlayerID:   id,
		})
	}
	return out, nil
}

// MatchHistoryAll walks history pages until an empty page or maxPages is
// reached. Between pages it pauses when the rate limit runs low.
func (c *Client) MatchHistoryAll(ctx context.Context, id string, t MatchmakingType, maxPages int) ([]MatchResult, error) {
	var all []MatchResult
	for page := 0; page < maxPages; page++ {
		if page > 0 {
			if err := c.throttle(ctx); err != nil {
				return all, err
			}
		}
		matches, err := c.MatchHistory(ctx, id, t, page)
		if err != nil {
			return all, err
		}
		if len(matches) == 0 {
			break
		}
		all = append(all, matches...)
	}
	return all, nil
}

// throttle waits out the rate limit backoff when remaining requests are low.
func (c *Client) throttle(ctx context.Context) error {
	rate := c.RateLimit()
	if rate.ShouldPause() {
		observability.RateLimit().OnPause(ctx, rate.Snapshot().Remaining, rate.Backoff)
	}
	_, err := rate.Wait(ctx)
	return err
}

// parseMatchmaking routes each element to its slot by type id. Elements may
// carry their fields directly or under "info"; unknown types are ignored.
func parseMatchmaking(list []integrations.Doc, playerID string) Matchmaking {
	var mm Matchmaking
	for _, el := range list {
		info := el.Doc("info")
		if info == nil {
			info = el
		}
		pm := parsePlayerMatchmaking(info, playerID)
		switch pm.Type {
		case ThreeVThree:
			mm.ThreeVThree = pm
		case Royal:
			mm.Royal = pm
		}
	}
	return mm
}

func parsePlayerMatchmaking(d integrations.Doc, playerID string) *PlayerMatchmaking {
	div := d.Doc("division")
	m := &PlayerMatchmaking{
		Type:        MatchmakingType(d.Int("typeid", 0)),
		TypeName:    d.String("typename", ""),
		Rank:        d.Int("rank", 0),
		Score:       d.Int("score", 0),
		Progression: d.Int("progression", 0),
		Division:    div.Int("position", 0),
		MinPoints:   div.Int("minpoints", 0),
		MaxPoints:   div.Int("maxpoints", 0),
		PlayerID:    playerID,
	}
	m.Progress = progress(m.Score, m.MinPoints, m.MaxPoints)
	return m
}

// progress is the percentage of the way from min to max, rounded to two
// decimals. It is 0 when the division has no span.
func progress(score, lo, hi int) float64 {
	if hi == lo {
		return 0
	}
	p := float64(score-lo) / float64(hi-lo) * 100
	return math.Round(p*100) / 100
}
