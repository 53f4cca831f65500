package tmio

import (
	"context"
	"testing"

	"github.com/matzehuels/tmio/pkg/errors"
)

const trophyHistoryDoc = `{"gains": [
	{"achievement": {"trophyAchievementType": "CompetitionMatch", "trophyRanking": 2},
	 "counts": [0, 0, 3, 1, 0, 0, 0, 0, 0], "timestamp": "2024-07-14T19:03:11+00:00"},
	{"achievement": {"trophyAchievementType": "LiveMatch"},
	 "rank": 7, "counts": [4], "timestamp": "not a date"}
]}`

func TestTrophyHistory(t *testing.T) {
	path := "/player/" + wirtualID + "/trophies/1"
	c, api := testClient(t, map[string]string{path: trophyHistoryDoc})
	ctx := context.Background()

	gains, err := c.TrophyHistory(ctx, wirtualID, 1)
	if err != nil {
		t.Fatalf("TrophyHistory() error = %v", err)
	}
	if len(gains) != 2 {
		t.Fatalf("len(gains) = %d, want 2", len(gains))
	}

	first := gains[0]
	if first.Type != "CompetitionMatch" || first.Rank != 2 || len(first.Counts) != 9 || first.Counts[2] != 3 {
		t.Errorf("gains[0] = %+v", first)
	}
	if first.Timestamp == nil || first.Timestamp.Day() != 14 {
		t.Errorf("gains[0].Timestamp = %v", first.Timestamp)
	}
	if gains[1].Rank != 7 {
		t.Errorf("rank should fall back to the gain, got %d", gains[1].Rank)
	}
	if gains[1].Timestamp != nil {
		t.Errorf("unknown time format should be nil, got %v", gains[1].Timestamp)
	}

	// Bound to the player, the same page comes from the cache.
	tr := &PlayerTrophies{PlayerID: wirtualID, client: c}
	if _, err := tr.History(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if n := api.count(path); n != 1 {
		t.Errorf("upstream hits = %d, want 1", n)
	}
}

func TestTrophyHistoryValidation(t *testing.T) {
	c, api := testClient(t, nil)
	ctx := context.Background()

	if _, err := c.TrophyHistory(ctx, "Wirtual", 0); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("malformed id err = %v, want NOT_FOUND", err)
	}
	if _, err := c.TrophyHistory(ctx, wirtualID, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative page err = %v", err)
	}
	if _, err := c.TrophyHistory(ctx, otherID, 0); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown player err = %v", err)
	}
	if len(api.hits) != 1 {
		t.Errorf("only the unknown player should reach upstream, hits = %v", api.hits)
	}
}

func TestTopTrophies(t *testing.T) {
	c, _ := testClient(t, map[string]string{
		"/top/trophies/0": `{"ranks": [
			{"rank": 1, "score": 104523871, "player": {"id": "` + wirtualID + `", "name": "Wirtual", "tag": "$F63W1SP",
			 "zone": {"name": "Limburg", "parent": {"name": "Netherlands"}}}},
			{"rank": 2, "score": 99000000, "player": {"id": "` + otherID + `", "name": "Scrapie"}}
		]}`,
		"/player/" + wirtualID: `{"accountid": "` + wirtualID + `", "displayname": "Wirtual"}`,
	})
	ctx := context.Background()

	entries, err := c.TopTrophies(ctx, 0)
	if err != nil {
		t.Fatalf("TopTrophies() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	e := entries[0]
	if e.Rank != 1 || e.Score != 104523871 || e.PlayerName != "Wirtual" {
		t.Errorf("entries[0] = %+v", e)
	}
	if e.ClubTag == nil || *e.ClubTag != "W1SP" {
		t.Errorf("ClubTag = %v, want W1SP", e.ClubTag)
	}
	if len(e.Zone) != 2 || e.Zone[1].Name != "Netherlands" || e.Zone[0].Rank != nil {
		t.Errorf("Zone = %+v", e.Zone)
	}
	if entries[1].ClubTag != nil {
		t.Errorf("missing tag should be nil, got %q", *entries[1].ClubTag)
	}

	p, err := e.Player(ctx)
	if err != nil {
		t.Fatalf("entry Player() error = %v", err)
	}
	if p.ID != wirtualID {
		t.Errorf("Player().ID = %q", p.ID)
	}
}

func TestTopTrophiesNegativePage(t *testing.T) {
	c, _ := testClient(t, nil)
	if _, err := c.TopTrophies(context.Background(), -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
