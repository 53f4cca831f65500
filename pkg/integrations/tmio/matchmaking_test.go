package tmio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/observability"
)

func TestParseMatchmakingRouting(t *testing.T) {
	royal := map[string]any{"typeid": float64(3), "typename": "Royal", "rank": float64(5)}
	threes := map[string]any{"typeid": float64(2), "typename": "3v3", "rank": float64(9)}
	unknown := map[string]any{"typeid": float64(7), "rank": float64(1)}

	tests := []struct {
		name       string
		list       []integrations.Doc
		wantThrees bool
		wantRoyal  bool
	}{
		{"empty", nil, false, false},
		{"royal only", []integrations.Doc{royal}, false, true},
		{"royal first", []integrations.Doc{royal, threes}, true, true},
		{"3v3 first", []integrations.Doc{threes, royal}, true, true},
		{"wrapped royal", []integrations.Doc{{"info": royal}}, false, true},
		{"unknown type ignored", []integrations.Doc{unknown}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm := parseMatchmaking(tt.list, wirtualID)
			if (mm.ThreeVThree != nil) != tt.wantThrees {
				t.Errorf("ThreeVThree = %+v", mm.ThreeVThree)
			}
			if (mm.Royal != nil) != tt.wantRoyal {
				t.Errorf("Royal = %+v", mm.Royal)
			}
			if mm.Royal != nil && (mm.Royal.Rank != 5 || mm.Royal.Type != Royal) {
				t.Errorf("Royal routed wrong element: %+v", mm.Royal)
			}
			if mm.ThreeVThree != nil && mm.ThreeVThree.Rank != 9 {
				t.Errorf("3v3 routed wrong element: %+v", mm.ThreeVThree)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		score, lo, hi int
		want          float64
	}{
		{3240, 3000, 3500, 48},
		{400, 400, 400, 0},
		{0, 0, 0, 0},
		{1, 0, 3, 33.33},
		{2, 0, 3, 66.67},
		{3500, 3000, 3500, 100},
	}
	for _, tt := range tests {
		if got := progress(tt.score, tt.lo, tt.hi); got != tt.want {
			t.Errorf("progress(%d, %d, %d) = %v, want %v", tt.score, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestDivisionLabel(t *testing.T) {
	tests := []struct {
		division int
		want     string
	}{
		{0, ""},
		{1, "Bronze 3"},
		{6, "Silver 1"},
		{9, "Gold 1"},
		{12, "Master 1"},
		{13, "Trackmaster"},
		{14, ""},
	}
	for _, tt := range tests {
		if got := DivisionLabel(tt.division); got != tt.want {
			t.Errorf("DivisionLabel(%d) = %q, want %q", tt.division, got, tt.want)
		}
	}
}

func TestMatchmakingTypeString(t *testing.T) {
	if ThreeVThree.String() != "3v3" || Royal.String() != "Royal" || MatchmakingType(9).String() != "unknown" {
		t.Error("unexpected MatchmakingType names")
	}
	if _, err := ParseMatchmakingType(4); !errors.Is(err, errors.ErrCodeInvalidMatchmakingGroup) {
		t.Errorf("ParseMatchmakingType(4) err = %v", err)
	}
}

func TestTopMatchmaking(t *testing.T) {
	c, api := testClient(t, map[string]string{
		"/top/matchmaking/3/0": `{"ranks": [
			{"rank": 1, "score": 9001, "accountid": "` + wirtualID + `",
			 "division": {"position": 13},
			 "player": {"name": "Wirtual", "id": "` + wirtualID + `", "tag": "$i$f00W"}}
		]}`,
	})
	ctx := context.Background()

	top, err := c.TopMatchmaking(ctx, 3, 0)
	if err != nil {
		t.Fatalf("TopMatchmaking error: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("top = %+v", top)
	}
	e := top[0]
	if e.PlayerID != wirtualID || e.Score != 9001 || e.Division != 13 || *e.ClubTag != "W" {
		t.Errorf("entry = %+v", e)
	}

	if _, err := c.TopMatchmaking(ctx, 1, 0); !errors.Is(err, errors.ErrCodeInvalidMatchmakingGroup) {
		t.Errorf("group 1 err = %v", err)
	}
	if _, err := c.TopMatchmaking(ctx, 2, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative page err = %v", err)
	}
	if len(api.hits) != 1 {
		t.Errorf("invalid calls reached the origin: %v", api.hits)
	}
}

func matchPage(n int) string {
	if n == 0 {
		return `{"matches": []}`
	}
	return fmt.Sprintf(`{"matches": [
		{"afterscore": %d, "leave": false, "lid": "LID-MTCH-%d", "mvp": true, "win": true, "starttime": "2023-02-01T20:00:00Z"}
	]}`, 3000+n, n)
}

func TestMatchHistory(t *testing.T) {
	c, _ := testClient(t, map[string]string{
		"/player/" + wirtualID + "/matches/2/0": matchPage(1),
	})

	matches, err := c.MatchHistory(context.Background(), wirtualID, ThreeVThree, 0)
	if err != nil {
		t.Fatalf("MatchHistory error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %+v", matches)
	}
	m := matches[0]
	if m.AfterScore != 3001 || !m.Win || !m.MVP || m.Leave || m.LiveID != "LID-MTCH-1" {
		t.Errorf("match = %+v", m)
	}
	if m.StartTime == nil || m.StartTime.Hour() != 20 {
		t.Errorf("StartTime = %v", m.StartTime)
	}

	if _, err := c.MatchHistory(context.Background(), wirtualID, MatchmakingType(5), 0); !errors.Is(err, errors.ErrCodeInvalidMatchmakingGroup) {
		t.Errorf("bad type err = %v", err)
	}
}

func TestMatchHistoryAll(t *testing.T) {
	prefix := "/player/" + wirtualID + "/matches/3/"
	c, api := testClient(t, map[string]string{
		prefix + "0": matchPage(1),
		prefix + "1": matchPage(2),
		prefix + "2": matchPage(0),
	})

	all, err := c.MatchHistoryAll(context.Background(), wirtualID, Royal, 10)
	if err != nil {
		t.Fatalf("MatchHistoryAll error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("collected %d matches, want 2", len(all))
	}
	if api.count(prefix+"3") != 0 {
		t.Error("walk should stop at the first empty page")
	}

	capped, err := c.MatchHistoryAll(context.Background(), wirtualID, Royal, 1)
	if err != nil || len(capped) != 1 {
		t.Errorf("maxPages 1 = %d matches, %v", len(capped), err)
	}
}

type pauseRecorder struct {
	observability.NoopRateLimitHooks
	pauses []int
}

func (r *pauseRecorder) OnPause(_ context.Context, remaining int, _ time.Duration) {
	r.pauses = append(r.pauses, remaining)
}

func TestMatchHistoryAllPausesWhenLow(t *testing.T) {
	defer observability.Reset()
	rec := &pauseRecorder{}
	observability.SetRateLimitHooks(rec)

	prefix := "/player/" + wirtualID + "/matches/2/"
	c, api := testClient(t, map[string]string{
		prefix + "0": matchPage(1),
		prefix + "1": matchPage(2),
	})
	api.header.Set(httputil.HeaderRemaining, "1")
	c.RateLimit().Backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	all, err := c.MatchHistoryAll(ctx, wirtualID, ThreeVThree, 5)
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want deadline exceeded while paused", err)
	}
	if len(all) != 1 {
		t.Errorf("collected %d matches before the pause, want 1", len(all))
	}
	if api.count(prefix+"1") != 0 {
		t.Error("second page fetched despite the pause")
	}
	if len(rec.pauses) != 1 || rec.pauses[0] != 1 {
		t.Errorf("pauses = %v, want [1]", rec.pauses)
	}
}

func TestPlayerMatchmakingHistory(t *testing.T) {
	c, _ := testClient(t, map[string]string{
		"/player/" + wirtualID + "/matches/3/0": matchPage(4),
	})

	pm := &PlayerMatchmaking{Type: Royal, PlayerID: wirtualID, client: c}
	matches, err := pm.History(context.Background(), 0)
	if err != nil || len(matches) != 1 || matches[0].AfterScore != 3004 {
		t.Errorf("History = %+v, %v", matches, err)
	}
}
