package tmio

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// Campaign is an official seasonal campaign or a club campaign.
type Campaign struct {
	ID             int
	ClubID         int
	Name           string
	Image          string
	LeaderboardUID string
	Official       bool
	Maps           []Map
	Media          *CampaignMedia

	client *Client
}

// CampaignMedia holds the artwork of an official campaign.
type CampaignMedia struct {
	ButtonBackground     string
	ButtonForeground     string
	Decal                string
	LiveButtonBackground string
	LiveButtonForeground string
	Popup                string
	PopupBackground      string
}

// CampaignSummary is a campaign listed on the campaigns page.
type CampaignSummary struct {
	ID       int
	ClubID   int
	Name     string
	MapCount int

	client *Client
}

// Campaign fetches the full campaign.
func (s *CampaignSummary) Campaign(ctx context.Context) (*Campaign, error) {
	return s.client.Campaign(ctx, s.ClubID, s.ID)
}

// CampaignLeaderboardEntry is one row of a campaign ranking.
type CampaignLeaderboardEntry struct {
	PlayerID   string
	PlayerName string
	Points     int
	Position   int

	client *Client
}

// Player fetches the full profile behind the entry.
func (e *CampaignLeaderboardEntry) Player(ctx context.Context) (*Player, error) {
	return e.client.Player(ctx, e.PlayerID)
}

// Campaign retrieves a campaign. A club id of 0 selects an official
// campaign.
func (c *Client) Campaign(ctx context.Context, club, id int) (*Campaign, error) {
	if club < 0 || id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid campaign %d/%d", club, id)
	}

	u := c.url("campaign", club, id)
	if club == 0 {
		u = c.url("officialcampaign", id)
	}
	d, err := c.FetchDoc(ctx, c.campaignKey(club, id), CampaignTTL, u)
	if err != nil {
		return nil, notFound(err, "campaign %d/%d", club, id)
	}

	camp := c.parseCampaign(d, club == 0)
	if camp.ClubID == 0 {
		camp.ClubID = club
	}
	return camp, nil
}

// OfficialCampaign retrieves a Nadeo campaign by id.
func (c *Client) OfficialCampaign(ctx context.Context, id int) (*Campaign, error) {
	return c.Campaign(ctx, 0, id)
}

// Campaigns returns a page of the campaign list, newest first.
func (c *Client) Campaigns(ctx context.Context, page int) ([]CampaignSummary, error) {
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}
	d, err := c.FetchDoc(ctx, c.campaignsKey(page), CampaignsTTL, c.url("campaigns", page))
	if err != nil {
		return nil, err
	}

	list := d.Docs("campaigns")
	out := make([]CampaignSummary, 0, len(list))
	for _, s := range list {
		out = append(out, CampaignSummary{
			ID:       s.Int("id", 0),
			ClubID:   s.Int("clubid", 0),
			Name:     markup.Strip(s.String("name", "")),
			MapCount: s.Int("mapcount", 0),
			client:   c,
		})
	}
	return out, nil
}

// CurrentSeason retrieves the newest official campaign.
func (c *Client) CurrentSeason(ctx context.Context) (*Campaign, error) {
	list, err := c.Campaigns(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.ClubID == 0 {
			return c.OfficialCampaign(ctx, s.ID)
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no official campaign listed")
}

// CampaignLeaderboard returns a page of a campaign ranking by leaderboard uid.
func (c *Client) CampaignLeaderboard(ctx context.Context, uid string, offset, length int) ([]CampaignLeaderboardEntry, error) {
	offset, length, err := leaderboardWindow(offset, length)
	if err != nil {
		return nil, err
	}
	u := integrations.WithQuery(c.url("leaderboard", uid), url.Values{
		"offset": {strconv.Itoa(offset)},
		"length": {strconv.Itoa(length)},
	})
	d, err := c.FetchDoc(ctx, c.campaignLeaderboardKey(uid, offset, length), LeaderboardTTL, u)
	if err != nil {
		return nil, notFound(err, "leaderboard %s", uid)
	}

	tops := d.Docs("tops")
	out := make([]CampaignLeaderboardEntry, 0, len(tops))
	for _, t := range tops {
		player := t.Doc("player")
		out = append(out, CampaignLeaderboardEntry{
			PlayerID:   player.String("id", ""),
			PlayerName: player.String("name", ""),
			Points:     t.Int("points", 0),
			Position:   t.Int("position", 0),
			client:     c,
		})
	}
	return out, nil
}

// Club fetches the club that owns the campaign. Official campaigns have no
// club and return NOT_FOUND.
func (camp *Campaign) Club(ctx context.Context) (*Club, error) {
	if camp.Official || camp.ClubID == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "official campaign %d has no club", camp.ID)
	}
	return camp.client.Club(ctx, camp.ClubID)
}

// Leaderboard fetches a page of the campaign ranking.
func (camp *Campaign) Leaderboard(ctx context.Context, offset, length int) ([]CampaignLeaderboardEntry, error) {
	return camp.client.CampaignLeaderboard(ctx, camp.LeaderboardUID, offset, length)
}

func (c *Client) parseCampaign(d integrations.Doc, official bool) *Campaign {
	camp := &Campaign{
		ID:             d.Int("id", 0),
		ClubID:         d.Int("clubid", 0),
		Name:           markup.Strip(d.String("name", "")),
		Image:          d.String("media", ""),
		LeaderboardUID: d.String("leaderboarduid", ""),
		Official:       official,
		Maps:           c.parseMaps(d.Docs("playlist")),
		client:         c,
	}
	if m := d.Doc("mediae"); m != nil {
		camp.Media = &CampaignMedia{
			ButtonBackground:     m.String("buttonbackground", ""),
			ButtonForeground:     m.String("buttonforeground", ""),
			Decal:                m.String("decal", ""),
			LiveButtonBackground: m.String("livebuttonbackground", ""),
			LiveButtonForeground: m.String("livebuttonforeground", ""),
			Popup:                m.String("popup", ""),
			PopupBackground:      m.String("popup_background", ""),
		}
		if camp.Image == "" {
			camp.Image = camp.Media.Decal
		}
	}
	return camp
}
