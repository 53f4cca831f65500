package tmio

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
)

const (
	wirtualID = "5b4d42f4-c2de-407d-b367-cbff3fe817bc"
	otherID   = "d46fb45d-d422-47c9-9785-67270a311e25"
)

// fakeAPI serves canned bodies by request path and counts hits. Unknown
// paths answer 200 with an in-band error, like trackmania.io does.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]string
	hits   map[string]int
	header http.Header
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	f.mu.Lock()
	f.hits[key]++
	body, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		body = `{"error":"not found"}`
	}
	for k, v := range f.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = body
}

func testClient(t *testing.T, routes map[string]string) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{routes: routes, hits: map[string]int{}, header: http.Header{}}
	if api.routes == nil {
		api.routes = map[string]string{}
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c := NewClient(httputil.NewTransport("test", httputil.NewRateLimit()), cache.NewMemoryCache(), "tmio:")
	c.SetBaseURL(srv.URL)
	return c, api
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func fixedNow(c *Client, now time.Time) {
	c.now = func() time.Time { return now }
}

func TestNewClient(t *testing.T) {
	c := NewClient(httputil.NewTransport("test", httputil.NewRateLimit()), nil, "tmio:")
	if c.Exchange() != nil {
		t.Error("Exchange() should be nil until set")
	}
	if c.RateLimit() == nil {
		t.Error("RateLimit() should expose the transport tracker")
	}
	if got := c.url("player", "a b"); got != BaseURL+"/player/a%20b" {
		t.Errorf("url() = %q", got)
	}
	if got := c.playerKey(wirtualID); got != "tmio:player:"+wirtualID {
		t.Errorf("playerKey() = %q", got)
	}
}

func TestNotFound(t *testing.T) {
	service := errors.New(errors.ErrCodeRemoteService, "player not found")
	err := notFound(service, "player %s", "x")
	if !errors.Is(err, errors.ErrCodeNotFound) || !errors.Is(err, errors.ErrCodeRemoteService) {
		t.Errorf("notFound(service) = %v, want both codes", err)
	}

	transport := errors.New(errors.ErrCodeRemoteTransport, "boom")
	if got := notFound(transport, "x"); got != error(transport) {
		t.Errorf("notFound(transport) = %v, want unchanged", got)
	}
}

func TestKeysAreStable(t *testing.T) {
	c := NewClient(httputil.NewTransport("test", nil), nil, "")
	may := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		got, want string
	}{
		{c.searchKey("WirTual"), "search:wirtual"},
		{c.usernameToIDKey("WIRTUAL"), "identity:name:wirtual"},
		{c.idToUsernameKey(wirtualID), "identity:id:" + wirtualID},
		{c.topMatchmakingKey(Royal, 2), "matchmaking:3:2"},
		{c.leaderboardKey("uid", 0, 50), "leaderboard:uid:0:50"},
		{c.totdMonthKey(may), "totd:2024:5"},
		{c.campaignKey(0, 42), "campaign:0:42"},
		{c.adsKey(), "ads"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}
