package tmio

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
	"github.com/matzehuels/tmio/pkg/markup"
)

// MaxLeaderboardLength is the most entries trackmania.io returns per page.
const MaxLeaderboardLength = 100

// Map is a map known to trackmania.io. UID is the stable identity; MapID is
// assigned by the game services and may change.
type Map struct {
	UID           string
	MapID         string
	Name          string
	AuthorID      string
	AuthorName    string
	SubmitterID   string
	SubmitterName string
	Environment   string
	FileName      string
	Thumbnail     string
	URL           string
	Uploaded      *time.Time
	ExchangeID    *int
	Medals        MedalTimes

	client *Client
}

// MedalTimes holds the medal thresholds in milliseconds.
type MedalTimes struct {
	Bronze int
	Silver int
	Gold   int
	Author int
}

// FormatTime renders milliseconds as m:ss.mmm.
func FormatTime(ms int) string {
	if ms < 0 {
		return "-" + FormatTime(-ms)
	}
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// String renders all four medals.
func (m MedalTimes) String() string {
	return fmt.Sprintf("author %s, gold %s, silver %s, bronze %s",
		FormatTime(m.Author), FormatTime(m.Gold), FormatTime(m.Silver), FormatTime(m.Bronze))
}

// LeaderboardEntry is one record on a map leaderboard.
type LeaderboardEntry struct {
	PlayerID   string
	PlayerName string
	PlayerTag  *string
	Position   int
	Time       int
	Ghost      string
	Timestamp  *time.Time

	client *Client
}

// Player fetches the full profile of the record holder.
func (e *LeaderboardEntry) Player(ctx context.Context) (*Player, error) {
	return e.client.Player(ctx, e.PlayerID)
}

// Map retrieves a map by uid.
func (c *Client) Map(ctx context.Context, uid string) (*Map, error) {
	if uid == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map uid cannot be empty")
	}
	d, err := c.FetchDoc(ctx, c.mapKey(uid), MapTTL, c.url("map", uid))
	if err != nil {
		return nil, notFound(err, "map %s", uid)
	}
	m := parseMap(d)
	m.client = c
	return m, nil
}

// Leaderboard returns length records of a map starting at offset. length
// is capped at [MaxLeaderboardLength]; a length below 1 is INVALID_INPUT.
func (c *Client) Leaderboard(ctx context.Context, uid string, offset, length int) ([]LeaderboardEntry, error) {
	offset, length, err := leaderboardWindow(offset, length)
	if err != nil {
		return nil, err
	}

	u := integrations.WithQuery(c.url("leaderboard", "map", uid), url.Values{
		"offset": {strconv.Itoa(offset)},
		"length": {strconv.Itoa(length)},
	})
	d, err := c.FetchDoc(ctx, c.leaderboardKey(uid, offset, length), LeaderboardTTL, u)
	if err != nil {
		return nil, notFound(err, "leaderboard of %s", uid)
	}
	return c.parseLeaderboard(d.Docs("tops")), nil
}

// Author fetches the map author's profile.
func (m *Map) Author(ctx context.Context) (*Player, error) {
	return m.client.Player(ctx, m.AuthorID)
}

// Submitter fetches the profile of the player who uploaded the map.
func (m *Map) Submitter(ctx context.Context) (*Player, error) {
	return m.client.Player(ctx, m.SubmitterID)
}

// Leaderboard fetches a page of the map's records.
func (m *Map) Leaderboard(ctx context.Context, offset, length int) ([]LeaderboardEntry, error) {
	return m.client.Leaderboard(ctx, m.UID, offset, length)
}

// Exchange fetches the map's trackmania.exchange record. It returns
// NOT_FOUND when the map is not on the exchange and CONFIGURATION when the
// client has no exchange client set.
func (m *Map) Exchange(ctx context.Context) (*tmx.Map, error) {
	if m.ExchangeID == nil || *m.ExchangeID <= 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "map %s is not on trackmania.exchange", m.UID)
	}
	x := m.client.Exchange()
	if x == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "no exchange client configured")
	}
	return x.Map(ctx, *m.ExchangeID)
}

func leaderboardWindow(offset, length int) (int, int, error) {
	if length < 1 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "leaderboard length must be at least 1, got %d", length)
	}
	if offset < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "leaderboard offset cannot be negative: %d", offset)
	}
	return offset, min(length, MaxLeaderboardLength), nil
}

func parseMap(d integrations.Doc) *Map {
	m := &Map{
		UID:           d.String("mapUid", ""),
		MapID:         d.String("mapId", ""),
		Name:          markup.Strip(d.String("name", "")),
		AuthorID:      d.String("author", ""),
		AuthorName:    d.Doc("authorplayer").String("name", ""),
		SubmitterID:   d.String("submitter", ""),
		SubmitterName: d.Doc("submitterplayer").String("name", ""),
		Environment:   d.String("collectionName", ""),
		FileName:      d.String("filename", ""),
		Thumbnail:     d.String("thumbnailUrl", ""),
		URL:           d.String("fileUrl", ""),
		Uploaded:      d.Time("timestamp"),
		Medals: MedalTimes{
			Bronze: d.Int("bronzeScore", 0),
			Silver: d.Int("silverScore", 0),
			Gold:   d.Int("goldScore", 0),
			Author: d.Int("authorScore", 0),
		},
	}
	if id := d.IntPtr("exchangeid"); id != nil && *id > 0 {
		m.ExchangeID = id
	}
	return m
}

func (c *Client) parseLeaderboard(tops []integrations.Doc) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(tops))
	for _, t := range tops {
		player := t.Doc("player")
		out = append(out, LeaderboardEntry{
			PlayerID:   player.String("id", ""),
			PlayerName: player.String("name", ""),
			PlayerTag:  markup.StripPtr(player.StringPtr("tag")),
			Position:   t.Int("position", 0),
			Time:       t.Int("time", 0),
			Ghost:      t.String("url", ""),
			Timestamp:  t.Time("timestamp"),
			client:     c,
		})
	}
	return out
}
