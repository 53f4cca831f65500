package tmio

import (
	"context"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// Room is a club server room.
type Room struct {
	ID          int
	ClubID      int
	Nadeo       bool
	Login       string
	Name        string
	MaxPlayers  int
	PlayerCount int
	Region      string
	Script      string
	ImageURL    string
	Maps        []Map

	client *Client
}

// RoomSearchResult is a room listed on the popular rooms page.
type RoomSearchResult struct {
	ID          int
	ClubID      int
	Name        string
	Nadeo       bool
	PlayerCount int
	MaxPlayers  int

	client *Client
}

// Room retrieves a room by club and room id.
func (c *Client) Room(ctx context.Context, club, id int) (*Room, error) {
	if club <= 0 || id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "club and room ids must be positive, got %d/%d", club, id)
	}
	d, err := c.FetchDoc(ctx, c.roomKey(club, id), RoomTTL, c.url("room", club, id))
	if err != nil {
		return nil, notFound(err, "room %d/%d", club, id)
	}
	return c.parseRoom(d), nil
}

// PopularRooms returns a page of the most populated rooms.
func (c *Client) PopularRooms(ctx context.Context, page int) ([]RoomSearchResult, error) {
	if err := errors.ValidatePage(page); err != nil {
		return nil, err
	}
	d, err := c.FetchDoc(ctx, c.popularRoomsKey(page), PopularRoomsTTL, c.url("rooms", page))
	if err != nil {
		return nil, err
	}

	rooms := d.Docs("rooms")
	out := make([]RoomSearchResult, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomSearchResult{
			ID:          r.Int("id", 0),
			ClubID:      r.Int("clubid", 0),
			Name:        markup.Strip(r.String("name", "")),
			Nadeo:       r.Bool("nadeo", false),
			PlayerCount: r.Int("playercount", 0),
			MaxPlayers:  r.Int("maxplayercount", 0),
			client:      c,
		})
	}
	return out, nil
}

// Club fetches the club that hosts the room.
func (r *Room) Club(ctx context.Context) (*Club, error) {
	return r.client.Club(ctx, r.ClubID)
}

// Room fetches the full room.
func (r *RoomSearchResult) Room(ctx context.Context) (*Room, error) {
	return r.client.Room(ctx, r.ClubID, r.ID)
}

// Club fetches the club that hosts the room.
func (r *RoomSearchResult) Club(ctx context.Context) (*Club, error) {
	return r.client.Club(ctx, r.ClubID)
}

func (c *Client) parseRoom(d integrations.Doc) *Room {
	r := &Room{
		ID:          d.Int("id", 0),
		ClubID:      d.Int("clubid", 0),
		Nadeo:       d.Bool("nadeo", false),
		Login:       d.String("login", ""),
		Name:        markup.Strip(d.String("name", "")),
		MaxPlayers:  d.Int("playermax", 0),
		PlayerCount: d.Int("playercount", 0),
		Region:      d.String("region", ""),
		Script:      d.String("script", ""),
		ImageURL:    d.String("mediaurl", ""),
		client:      c,
	}
	r.Maps = c.parseMaps(d.Docs("maps"))
	return r
}

// parseMaps normalizes embedded map documents.
func (c *Client) parseMaps(docs []integrations.Doc) []Map {
	maps := make([]Map, 0, len(docs))
	for _, m := range docs {
		parsed := parseMap(m)
		parsed.client = c
		maps = append(maps, *parsed)
	}
	return maps
}
