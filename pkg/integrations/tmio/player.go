package tmio

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// maxZoneDepth bounds the zone chain: local, region, country, continent, world.
const maxZoneDepth = 5

// Player is a trackmania.io player profile.
//
// Optional fields are nil when the profile does not carry them.
type Player struct {
	ID             string
	Name           string
	ClubTag        *string
	FirstLogin     *time.Time
	ClubTagChanged *time.Time
	Zone           []PlayerZone
	Trophies       *PlayerTrophies
	Matchmaking    Matchmaking
	Meta           PlayerMeta

	client *Client
}

// PlayerZone is one level of a player's zone chain, most local first.
// Rank is nil when trackmania.io sent no position for the level.
type PlayerZone struct {
	Flag string
	Name string
	Rank *int
}

// PlayerMeta holds profile links and staff flags.
type PlayerMeta struct {
	DisplayURL   *string
	Vanity       *string
	Twitch       *string
	Twitter      *string
	YouTube      *string
	Nadeo        bool
	TMGL         bool
	Team         bool
	Sponsor      bool
	SponsorLevel int
	TMWC21       bool
}

// PlayerSearchResult is one match from a username search.
type PlayerSearchResult struct {
	ID          string
	Name        string
	ClubTag     *string
	Zone        []PlayerZone
	Matchmaking Matchmaking

	client *Client
}

// Player fetches the full profile of the result.
func (r *PlayerSearchResult) Player(ctx context.Context) (*Player, error) {
	return r.client.Player(ctx, r.ID)
}

// IsAccountID reports whether s looks like a Ubisoft account id rather than
// a display name.
func IsAccountID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// Player retrieves a player by account id. Profiles are cached for
// [PlayerTTL]; the lowercase name and id pair is remembered forever.
func (c *Client) Player(ctx context.Context, id string) (*Player, error) {
	if err := errors.ValidateAccountID(id); err != nil {
		return nil, err
	}

	d, err := c.FetchDoc(ctx, c.playerKey(id), PlayerTTL, c.url("player", id))
	if err != nil {
		return nil, notFound(err, "player %s", id)
	}
	p := parsePlayer(d)
	p.bind(c)

	if p.Name != "" {
		c.rememberIdentity(ctx, p.ID, p.Name)
	}
	return p, nil
}

// Search finds players whose name matches name. No match is an empty slice.
func (c *Client) Search(ctx context.Context, name string) ([]PlayerSearchResult, error) {
	name = strings.TrimSpace(name)
	if err := errors.ValidateUsername(name); err != nil {
		return nil, err
	}

	u := integrations.WithQuery(c.url("players", "find"), url.Values{"search": {name}})
	list, err := c.FetchList(ctx, c.searchKey(name), SearchTTL, u)
	if err != nil {
		return nil, notFound(err, "search %q", name)
	}

	results := make([]PlayerSearchResult, 0, len(list))
	for _, d := range list {
		r := parseSearchResult(d)
		r.client = c
		r.Matchmaking.bind(c)
		results = append(results, r)
	}
	return results, nil
}

// ToAccountID resolves a display name to an account id. The first search
// result wins, preferring an exact case-insensitive match. Returns
// NOT_FOUND when nobody has that name.
func (c *Client) ToAccountID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	var id string
	if c.Recall(ctx, c.usernameToIDKey(name), &id) {
		return id, nil
	}

	results, err := c.Search(ctx, name)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no player named %q", name)
	}

	best := results[0]
	for _, r := range results {
		if strings.EqualFold(r.Name, name) {
			best = r
			break
		}
	}
	c.rememberIdentity(ctx, best.ID, best.Name)
	return best.ID, nil
}

// rememberIdentity stores both directions of a name and id pair, writing
// only the directions whose stored value is missing or stale.
func (c *Client) rememberIdentity(ctx context.Context, id, name string) {
	var known string
	if !c.Recall(ctx, c.usernameToIDKey(name), &known) || known != id {
		c.Remember(ctx, c.usernameToIDKey(name), id)
	}
	known = ""
	if !c.Recall(ctx, c.idToUsernameKey(id), &known) || known != name {
		c.Remember(ctx, c.idToUsernameKey(id), name)
	}
}

// ToUsername resolves an account id to the current display name.
func (c *Client) ToUsername(ctx context.Context, id string) (string, error) {
	var name string
	if c.Recall(ctx, c.idToUsernameKey(id), &name) {
		return name, nil
	}
	p, err := c.Player(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// ResolvePlayer accepts either an account id or a display name.
func (c *Client) ResolvePlayer(ctx context.Context, nameOrID string) (*Player, error) {
	id := strings.TrimSpace(nameOrID)
	if !IsAccountID(id) {
		var err error
		if id, err = c.ToAccountID(ctx, id); err != nil {
			return nil, err
		}
	}
	return c.Player(ctx, id)
}

func (p *Player) bind(c *Client) {
	p.client = c
	if p.Trophies != nil {
		p.Trophies.client = c
	}
	p.Matchmaking.bind(c)
}

func parsePlayer(d integrations.Doc) *Player {
	id := d.String("accountid", "")
	trophies := d.Doc("trophies")

	p := &Player{
		ID:             id,
		Name:           d.String("displayname", ""),
		ClubTag:        markup.StripPtr(d.StringPtr("clubtag")),
		FirstLogin:     d.Time("timestamp"),
		ClubTagChanged: d.Time("clubtagtimestamp"),
		Zone:           parseZones(trophies.Doc("zone"), trophies.Ints("zonepositions")),
		Matchmaking:    parseMatchmaking(d.Docs("matchmaking"), id),
		Meta:           parseMeta(d.Doc("meta")),
	}
	if trophies != nil {
		p.Trophies = parseTrophies(trophies, id)
	}
	return p
}

// parseZones walks the parent chain of zone and pairs each level with the
// rank at the same index. Missing ranks stay nil.
func parseZones(zone integrations.Doc, ranks []int) []PlayerZone {
	var zones []PlayerZone
	for level := zone; level != nil && len(zones) < maxZoneDepth; level = level.Doc("parent") {
		name := level.String("name", level.String("zone", ""))
		if name == "" && !level.Has("flag") {
			break
		}
		z := PlayerZone{Flag: level.String("flag", ""), Name: name}
		if i := len(zones); i < len(ranks) {
			rank := ranks[i]
			z.Rank = &rank
		}
		zones = append(zones, z)
	}
	return zones
}

func parseMeta(d integrations.Doc) PlayerMeta {
	return PlayerMeta{
		DisplayURL:   d.StringPtr("display_url"),
		Vanity:       d.StringPtr("vanity"),
		Twitch:       d.StringPtr("twitch"),
		Twitter:      d.StringPtr("twitter"),
		YouTube:      d.StringPtr("youtube"),
		Nadeo:        d.Bool("nadeo", false),
		TMGL:         d.Bool("tmgl", false),
		Team:         d.Bool("team", false),
		Sponsor:      d.Bool("sponsor", false),
		SponsorLevel: d.Int("sponsor_level", 0),
		TMWC21:       d.Bool("tmwc21", false),
	}
}

func parseSearchResult(d integrations.Doc) PlayerSearchResult {
	player := d.Doc("player")
	id := player.String("id", "")
	tag := player.StringPtr("tag")
	if tag == nil {
		tag = player.StringPtr("club_tag")
	}
	return PlayerSearchResult{
		ID:          id,
		Name:        player.String("name", ""),
		ClubTag:     markup.StripPtr(tag),
		Zone:        parseZones(player.Doc("zone"), nil),
		Matchmaking: parseMatchmaking(d.Docs("matchmaking"), id),
	}
}
