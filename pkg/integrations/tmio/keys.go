package tmio

import (
	"strings"
	"time"
)

// One key builder per resource. Each logical request maps to exactly one
// key; keys never depend on the time of the call.

func (c *Client) playerKey(id string) string { return c.Key("player", id) }

func (c *Client) searchKey(name string) string {
	return c.Key("search", strings.ToLower(name))
}

func (c *Client) usernameToIDKey(name string) string {
	return c.Key("identity", "name", strings.ToLower(name))
}

func (c *Client) idToUsernameKey(id string) string {
	return c.Key("identity", "id", id)
}

func (c *Client) trophyHistoryKey(id string, page int) string {
	return c.Key("trophies", id, page)
}

func (c *Client) topTrophiesKey(page int) string { return c.Key("trophies", "top", page) }

func (c *Client) topMatchmakingKey(t MatchmakingType, page int) string {
	return c.Key("matchmaking", int(t), page)
}

func (c *Client) matchHistoryKey(id string, t MatchmakingType, page int) string {
	return c.Key("matches", id, int(t), page)
}

func (c *Client) mapKey(uid string) string { return c.Key("map", uid) }

func (c *Client) leaderboardKey(uid string, offset, length int) string {
	return c.Key("leaderboard", uid, offset, length)
}

func (c *Client) campaignLeaderboardKey(uid string, offset, length int) string {
	return c.Key("leaderboard", "campaign", uid, offset, length)
}

func (c *Client) cotdKey(page int) string { return c.Key("cotd", page) }

func (c *Client) playerCOTDKey(id string, page int) string {
	return c.Key("playercotd", id, page)
}

func (c *Client) totdMonthKey(t time.Time) string {
	return c.Key("totd", t.Year(), int(t.Month()))
}

func (c *Client) latestTOTDKey() string { return c.Key("totd", "latest") }

func (c *Client) adsKey() string { return c.Key("ads") }

func (c *Client) clubKey(id int) string { return c.Key("club", id) }

func (c *Client) clubMembersKey(id, page int) string { return c.Key("clubmembers", id, page) }

func (c *Client) roomKey(club, id int) string { return c.Key("room", club, id) }

func (c *Client) popularRoomsKey(page int) string { return c.Key("rooms", page) }

// Official campaigns use club id 0.
func (c *Client) campaignKey(club, id int) string { return c.Key("campaign", club, id) }

func (c *Client) campaignsKey(page int) string { return c.Key("campaigns", page) }
