package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/integrations/tmio"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
)

const accountID = "5b4d42f4-c2de-407d-b367-cbff3fe817bc"

// upstream answers like trackmania.io: known routes return their body,
// anything else a 200 with an "error" field. A body starting with a
// three-digit status and a space is sent with that status instead.
func upstream(t *testing.T, routes map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := routes[key]
		if !ok {
			io.WriteString(w, `{"error":"not found"}`)
			return
		}
		var status int
		if n, _ := fmt.Sscanf(body, "%d ", &status); n == 1 && len(body) > 4 {
			w.WriteHeader(status)
			body = body[4:]
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func testRouter(t *testing.T, routes map[string]string) http.Handler {
	t.Helper()
	base := upstream(t, routes)

	transport := httputil.NewTransport("tmio-test", httputil.NewRateLimit())
	backend := cache.NewMemoryCache()
	client := tmio.NewClient(transport, backend, "test:")
	client.SetBaseURL(base)

	exchange := tmx.NewClient(transport, backend, "test:")
	exchange.SetBaseURL(base + "/tmx")
	client.SetExchange(exchange)

	return New(client, nil).Router()
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("%s: Content-Type = %q", path, ct)
	}
	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode body: %v", path, err)
		}
	}
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	status, body := get(t, testRouter(t, nil), "/healthz")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", status, body)
	}
}

func TestPlayer(t *testing.T) {
	h := testRouter(t, map[string]string{
		"/player/" + accountID: `{"accountid":"` + accountID + `","displayname":"Wirtual"}`,
	})

	status, body := get(t, h, "/players/"+accountID)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if body["Name"] != "Wirtual" || body["ID"] != accountID {
		t.Errorf("body = %v", body)
	}
}

func TestMapLeaderboardDefaultsToFullPage(t *testing.T) {
	h := testRouter(t, map[string]string{
		"/leaderboard/map/abc?length=100&offset=0": `{"tops":[{"player":{"id":"` + accountID + `","name":"Wirtual"},"position":1,"time":42000}]}`,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/maps/abc/leaderboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var entries []struct {
		PlayerName string
		Position   int
		Time       int
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].PlayerName != "Wirtual" || entries[0].Time != 42000 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestErrorStatus(t *testing.T) {
	h := testRouter(t, map[string]string{
		"/ads": `500 upstream exploded`,
	})

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"unknown player", "/players/d46fb45d-d422-47c9-9785-67270a311e25", http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown map", "/maps/nope", http.StatusNotFound, errors.ErrCodeNotFound},
		{"zero length", "/maps/abc/leaderboard?length=0", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"non-numeric offset", "/maps/abc/leaderboard?offset=first", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad totd date", "/totd/yesterday", http.StatusBadRequest, errors.ErrCodeInvalidTOTDDate},
		{"future totd", "/totd/2999-01-01", http.StatusBadRequest, errors.ErrCodeInvalidTOTDDate},
		{"non-numeric tmx id", "/tmx/abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"upstream failure", "/ads", http.StatusBadGateway, errors.ErrCodeRemoteTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, h, tt.path)
			if status != tt.status {
				t.Errorf("status = %d, want %d (body %v)", status, tt.status, body)
			}
			if body["code"] != string(tt.code) {
				t.Errorf("code = %v, want %s", body["code"], tt.code)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	notFound := fmt.Errorf("lookup: %w", errors.Wrap(errors.ErrCodeNotFound,
		&errors.RemoteError{Status: 404, Text: "gone"}, "GET /player/x"))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{"wrapped not found", notFound, http.StatusNotFound},
		{"invalid input", errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"invalid group", errors.New(errors.ErrCodeInvalidMatchmakingGroup, "x"), http.StatusBadRequest},
		{"rate limited", errors.New(errors.ErrCodeRateLimited, "x"), http.StatusBadGateway},
		{"service", errors.New(errors.ErrCodeRemoteService, "x"), http.StatusBadGateway},
		{"uncoded", fmt.Errorf("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
