package tmx

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/markup"
)

// Map is a map record on trackmania.exchange.
type Map struct {
	ID          int
	TrackID     *int
	UID         string
	Name        string
	Username    string
	UserID      int
	Comments    string
	MappackID   int
	RouteName   string
	LengthName  string
	Difficulty  string
	Laps        int
	Tags        []Tag
	Gbx         GbxMetadata
	WorldRecord *WorldRecord
	Metadata    Metadata
	Uploaded    *time.Time
	Updated     *time.Time
}

// GbxMetadata is the information TMX extracts from the map file.
type GbxMetadata struct {
	Name        string
	AuthorLogin string
	MapType     string
	TitlePack   string
	TrackUID    string
	Mood        string
	DisplayCost int
	ModName     string
	Lightmap    int
	ExeVersion  string
	ExeBuild    *time.Time
	AuthorTime  int
	Environment string
	Vehicle     string
}

// WorldRecord is the best replay uploaded to TMX, which may lag the game.
type WorldRecord struct {
	ReplayID int
	Time     int
	UserID   int
	Username string
}

// Metadata holds counters and flags shown on the TMX map page.
type Metadata struct {
	Unlisted             bool
	Unreleased           bool
	Downloadable         bool
	RatingVoteCount      int
	RatingVoteAverage    float64
	HasScreenshot        bool
	HasThumbnail         bool
	HasGhostBlocks       bool
	EmbeddedObjectsCount int
	EmbeddedItemsSize    int
	SizeWarning          bool
	ReplayCount          int
	AwardCount           int
	CommentCount         int
	ImageCount           int
	VideoCount           int
}

func parseMap(d integrations.Doc) *Map {
	m := &Map{
		ID:         d.Int("MapID", d.Int("TrackID", 0)),
		TrackID:    d.IntPtr("TrackID"),
		UID:        d.String("TrackUID", ""),
		Name:       markup.Strip(d.String("Name", d.String("GbxMapName", ""))),
		Username:   d.String("Username", ""),
		UserID:     d.Int("UserID", 0),
		Comments:   d.String("Comments", ""),
		MappackID:  d.Int("MappackID", 0),
		RouteName:  d.String("RouteName", ""),
		LengthName: d.String("LengthName", ""),
		Difficulty: d.String("DifficultyName", ""),
		Laps:       d.Int("Laps", 0),
		Tags:       ParseTags(d.String("Tags", "")),
		Uploaded:   d.Time("UploadedAt"),
		Updated:    d.Time("UpdatedAt"),
		Gbx: GbxMetadata{
			Name:        markup.Strip(d.String("GbxMapName", "")),
			AuthorLogin: d.String("AuthorLogin", ""),
			MapType:     d.String("MapType", ""),
			TitlePack:   d.String("TitlePack", ""),
			TrackUID:    d.String("TrackUID", ""),
			Mood:        d.String("Mood", ""),
			DisplayCost: d.Int("DisplayCost", 0),
			ModName:     d.String("ModName", ""),
			Lightmap:    d.Int("Lightmap", 0),
			ExeVersion:  d.String("ExeVersion", ""),
			ExeBuild:    d.Time("ExeBuild"),
			AuthorTime:  d.Int("AuthorTime", 0),
			Environment: d.String("EnvironmentName", ""),
			Vehicle:     d.String("VehicleName", ""),
		},
		Metadata: Metadata{
			Unlisted:             d.Bool("Unlisted", false),
			Unreleased:           d.Bool("Unreleased", false),
			Downloadable:         d.Bool("Downloadable", true),
			RatingVoteCount:      d.Int("RatingVoteCount", 0),
			RatingVoteAverage:    d.Float("RatingVoteAverage", 0),
			HasScreenshot:        d.Bool("HasScreenshot", false),
			HasThumbnail:         d.Bool("HasThumbnail", false),
			HasGhostBlocks:       d.Bool("HasGhostBlocks", false),
			EmbeddedObjectsCount: d.Int("EmbeddedObjectsCount", 0),
			EmbeddedItemsSize:    d.Int("EmbeddedItemsSize", 0),
			SizeWarning:          d.Bool("SizeWarning", false),
			ReplayCount:          d.Int("ReplayCount", 0),
			AwardCount:           d.Int("AwardCount", 0),
			CommentCount:         d.Int("CommentCount", 0),
			ImageCount:           d.Int("ImageCount", 0),
			VideoCount:           d.Int("VideoCount", 0),
		},
	}

	if d.Has("ReplayWRID") || d.Has("ReplayWRId") {
		m.WorldRecord = &WorldRecord{
			ReplayID: d.Int("ReplayWRID", d.Int("ReplayWRId", 0)),
			Time:     d.Int("ReplayWRTime", 0),
			UserID:   d.Int("ReplayWRUserID", 0),
			Username: d.String("ReplayWRUsername", ""),
		}
	}
	return m
}

// Resolver finds a map on another service by its game uid.
type Resolver[T any] interface {
	Map(ctx context.Context, uid string) (T, error)
}

// TrackmaniaIO looks up m on the service behind r using its uid. Each call
// performs a fresh lookup.
func TrackmaniaIO[T any](ctx context.Context, m *Map, r Resolver[T]) (T, error) {
	var zero T
	if m.UID == "" {
		return zero, errors.New(errors.ErrCodeNotFound, "exchange map %d has no uid", m.ID)
	}
	return r.Map(ctx, m.UID)
}

// Tag is a TMX map tag.
type Tag struct {
	ID   int
	Name string
}

// String returns the tag name.
func (t Tag) String() string { return t.Name }

var tagNames = map[int]string{
	1: "Race", 2: "FullSpeed", 3: "Tech", 4: "RPG", 5: "LOL",
	6: "Press Forward", 7: "SpeedTech", 8: "MultiLap", 9: "Offroad", 10: "Trial",
	11: "ZrT", 12: "SpeedFun", 13: "Competitive", 14: "Ice", 15: "Dirt",
	16: "Stunt", 17: "Reactor", 18: "Platform", 19: "Slow Motion", 20: "Bumper",
	21: "Fragile", 22: "Scenery", 23: "Kacky", 24: "Endurance", 25: "Mini",
	26: "Remake", 27: "Mixed", 28: "Nascar", 29: "SpeedDrift", 30: "Minigame",
	31: "Obstacle", 32: "Transitional", 33: "Grass", 34: "Backwards", 35: "Freewheel",
	36: "Signature", 37: "Royal", 38: "Water", 39: "Plastic", 40: "Arena",
}

// TagName returns the name for a tag id, or "" when unknown.
func TagName(id int) string { return tagNames[id] }

// ParseTags parses the comma-separated tag id list TMX sends. Entries that
// are not integers are skipped; unknown ids keep an empty name.
func ParseTags(s string) []Tag {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []Tag
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		tags = append(tags, Tag{ID: id, Name: tagNames[id]})
	}
	return tags
}
