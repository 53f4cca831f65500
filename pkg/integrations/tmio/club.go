package tmio

import (
	"context"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// Club is a player club.
type Club struct {
	ID          int
	Name        string
	Tag         string
	Description string
	Logo        string
	Decal       string
	Background  string
	State       string
	CreatorID   string
	MemberCount int
	Popularity  int
	Featured    bool
	CreatedAt   *time.Time

	client *Client
}

// ClubMember is one member listed on a club page.
type ClubMember struct {
	PlayerID   string
	PlayerName string
	Tag        *string
	Role       string
	JoinTime   *time.Time

	client *Client
}

// Player fetches the member's full profile.
func (m *ClubMember) Player(ctx context.Context) (*Player, error) {
	return m.client.Player(ctx, m.PlayerID)
}

// Club retrieves a club by id.
func (c *Client) Club(ctx context.Context, id int) (*Club, error) {
	if id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "club id must be positive, got %d", id)
	}
	d, err := c.FetchDoc(ctx, c.clubKey(id), ClubTTL, c.url("club", id))
	if err != nil {
		return nil, notFound(err, "club %d", id)
	}
	club := parseClub(d)
	club.client = c
	return club, nil
}

// ClubMembers returns a page of a club's members.
func (c *Client) ClubMembers(ctx context.Context, id, page int) ([]ClubMember, error) {
	if id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "club id must be positive, got %d", id)
	}
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}
	d, err := c.FetchDoc(ctx, c.clubMembersKey(id, page), ClubMembersTTL, c.url("club", id, "members", page))
	if err != nil {
		return nil, notFound(err, "members of club %d", id)
	}

	members := d.Docs("members")
	out := make([]ClubMember, 0, len(members))
	for _, m := range members {
		player := m.Doc("player")
		out = append(out, ClubMember{
			PlayerID:   player.String("id", ""),
			PlayerName: player.String("name", ""),
			Tag:        markup.StripPtr(player.StringPtr("tag")),
			Role:       m.String("role", ""),
			JoinTime:   m.Unix("joinTime"),
			client:     c,
		})
	}
	return out, nil
}

// Creator fetches the profile of the player who created the club.
func (cl *Club) Creator(ctx context.Context) (*Player, error) {
	return cl.client.Player(ctx, cl.CreatorID)
}

// Members fetches a page of the club's members.
func (cl *Club) Members(ctx context.Context, page int) ([]ClubMember, error) {
	return cl.client.ClubMembers(ctx, cl.ID, page)
}

func parseClub(d integrations.Doc) *Club {
	return &Club{
		ID:          d.Int("id", 0),
		Name:        markup.Strip(d.String("name", "")),
		Tag:         markup.Strip(d.String("tag", "")),
		Description: d.String("description", ""),
		Logo:        d.String("logoUrl", ""),
		Decal:       d.String("decalUrl", ""),
		Background:  d.String("backgroundUrl", ""),
		State:       d.String("state", ""),
		CreatorID:   d.Doc("creatorplayer").String("id", ""),
		MemberCount: d.Int("membercount", 0),
		Popularity:  d.Int("popularityLevel", 0),
		Featured:    d.Bool("featured", false),
		CreatedAt:   d.Unix("creationTimestamp"),
	}
}
