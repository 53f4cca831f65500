package tmio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
)

const cotdStats = `{
	"avgdiv": 1.42,
	"avgdivrank": 12.5,
	"avgrank": 40.1,
	"bestoverall": {
		"bestrank": 1, "bestranktime": "2021-06-01T17:00:00+00:00", "bestrankdivrank": 1,
		"bestdiv": 1, "bestdivtime": "2021-06-01T17:00:00+00:00",
		"bestrankindiv": 1, "bestrankindivtime": "2021-06-01T17:00:00+00:00", "bestrankindivdiv": 1
	},
	"bestprimary": {"bestrank": 3, "bestranktime": "2021-07-01T17:00:00+00:00"},
	"divwinstreak": 4,
	"totaldivwins": 50,
	"totalwins": 7,
	"winstreak": 2
}`

func cotdPage(total int, ids ...int) string {
	cotds := ""
	for i, id := range ids {
		if i > 0 {
			cotds += ","
		}
		cotds += fmt.Sprintf(`{"id": %d, "timestamp": "2024-05-0%dT17:00:00+00:00", "name": "Cup of the Day 2024-05-0%d #1",
			"div": 2, "rank": 80, "divrank": %d, "score": %d, "totalplayers": 4200}`, id, i+1, i+1, i, i*10)
	}
	return fmt.Sprintf(`{"total": %d, "cotds": [%s], "stats": %s}`, total, cotds, cotdStats)
}

func TestPlayerCOTD(t *testing.T) {
	c, _ := testClient(t, map[string]string{
		"/player/" + wirtualID + "/cotd/0": cotdPage(2, 100, 101),
	})
	ctx := context.Background()

	page, err := c.PlayerCOTD(ctx, wirtualID, 0)
	if err != nil {
		t.Fatalf("PlayerCOTD error: %v", err)
	}
	if page.Total != 2 || len(page.Results) != 2 || page.PlayerID != wirtualID {
		t.Fatalf("PlayerCOTD = %+v", page)
	}

	first := page.Results[0]
	if first.DivRank != nil || first.Score != nil {
		t.Errorf("zero divrank and score should be nil: %+v", first)
	}
	second := page.Results[1]
	if second.DivRank == nil || *second.DivRank != 1 || second.Score == nil || *second.Score != 10 {
		t.Errorf("results[1] = %+v", second)
	}
	if first.Timestamp == nil || !first.Timestamp.Equal(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", first.Timestamp)
	}

	s := page.Stats
	if s.AverageDiv != 1.42 || s.TotalWins != 7 || s.DivWinStreak != 4 {
		t.Errorf("Stats = %+v", s)
	}
	if s.BestOverall.BestRank != 1 || s.BestOverall.BestRankInDivTime == nil {
		t.Errorf("BestOverall = %+v", s.BestOverall)
	}
	if s.BestPrimary.BestRank != 3 || s.BestPrimary.BestDivTime != nil {
		t.Errorf("BestPrimary = %+v", s.BestPrimary)
	}

	if _, err := c.PlayerCOTD(ctx, otherID, 0); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown player err = %v", err)
	}
}

func TestPlayerCOTDAll(t *testing.T) {
	prefix := "/player/" + wirtualID + "/cotd/"
	c, api := testClient(t, map[string]string{
		prefix + "0": cotdPage(5, 1, 2),
		prefix + "1": cotdPage(5, 3, 4),
		prefix + "2": cotdPage(5, 5),
	})

	all, err := c.PlayerCOTDAll(context.Background(), wirtualID)
	if err != nil {
		t.Fatalf("PlayerCOTDAll error: %v", err)
	}
	if len(all.Results) != 5 {
		t.Fatalf("collected %d results, want 5", len(all.Results))
	}
	for i, r := range all.Results {
		if r.ID != i+1 {
			t.Errorf("results[%d].ID = %d", i, r.ID)
		}
	}
	if api.count(prefix+"3") != 0 {
		t.Error("walk should stop once total is reached")
	}
}

func TestPlayerCOTDAllStopsOnEmptyPage(t *testing.T) {
	prefix := "/player/" + wirtualID + "/cotd/"
	c, _ := testClient(t, map[string]string{
		prefix + "0": cotdPage(10, 1),
		prefix + "1": cotdPage(10),
	})

	all, err := c.PlayerCOTDAll(context.Background(), wirtualID)
	if err != nil || len(all.Results) != 1 {
		t.Errorf("PlayerCOTDAll = %+v, %v", all, err)
	}
}

func TestPlayerCOTDResolver(t *testing.T) {
	c, api := testClient(t, map[string]string{
		"/player/" + wirtualID + "/cotd/1": cotdPage(1, 9),
	})
	api.set("/player/"+wirtualID, fixture(t, "player.json"))
	ctx := context.Background()

	p, err := c.Player(ctx, wirtualID)
	if err != nil {
		t.Fatal(err)
	}
	page, err := p.COTD(ctx, 1)
	if err != nil || len(page.Results) != 1 || page.Results[0].ID != 9 {
		t.Errorf("COTD() = %+v, %v", page, err)
	}
}

func TestCOTDList(t *testing.T) {
	c, _ := testClient(t, map[string]string{
		"/cotd/0": `{"competitions": [
			{"id": 5012, "name": "Cup of the Day 2024-05-03 #1", "players": 4210, "starttime": 1714755600, "endtime": 1714762800},
			{"id": 5011, "name": "$fffCup of the Day 2024-05-02 #3"}
		]}`,
	})

	list, err := c.COTDList(context.Background(), 0)
	if err != nil {
		t.Fatalf("COTDList error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	first := list[0]
	if first.ID != 5012 || first.Players != 4210 || first.Start == nil || first.End.Sub(*first.Start) != 2*time.Hour {
		t.Errorf("list[0] = %+v", first)
	}
	if list[1].Name != "Cup of the Day 2024-05-02 #3" || list[1].Start != nil {
		t.Errorf("list[1] = %+v", list[1])
	}
}
