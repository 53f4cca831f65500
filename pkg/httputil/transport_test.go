package httputil

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/tmio/pkg/errors"
)

func TestTransportUserAgentHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport("  my-app  ", nil)
	if _, err := tr.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "my-app | via tmio" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestTransportMissingUserAgent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	tr := NewTransport("", nil)
	_, err := tr.Get(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("err = %v, want CONFIGURATION", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d requests, want 0", calls.Load())
	}
}

func TestTransportStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.Code
		wantJSON bool
	}{
		{"not found json", 404, `{"error":"player not found"}`, errors.ErrCodeNotFound, true},
		{"server error text", 500, `Internal Server Error`, errors.ErrCodeRemoteTransport, false},
		{"bad request", 400, `{"error":"bad"}`, errors.ErrCodeRemoteTransport, true},
		{"rate limited", 429, `slow down`, errors.ErrCodeRateLimited, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == 429 {
					w.Header().Set("Retry-After", "30")
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewTransport("test", nil).Get(context.Background(), srv.URL)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("err = %v, want code %s", err, tt.wantCode)
			}

			var remote *errors.RemoteError
			if !stderrors.As(err, &remote) {
				t.Fatalf("err = %v, want RemoteError in chain", err)
			}
			if remote.Status != tt.status {
				t.Errorf("Status = %d, want %d", remote.Status, tt.status)
			}
			if tt.wantJSON && remote.JSON == nil {
				t.Error("JSON body should be decoded")
			}
			if !tt.wantJSON && remote.Text != tt.body {
				t.Errorf("Text = %q, want %q", remote.Text, tt.body)
			}

			if tt.status == 429 {
				var rl *errors.RateLimitedError
				if !stderrors.As(err, &rl) || rl.RetryAfter != 30 {
					t.Errorf("RateLimitedError = %+v", rl)
				}
			}
		})
	}
}

func TestTransportAllowErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"nope"}`)
	}))
	defer srv.Close()

	resp, err := NewTransport("test", nil).Do(context.Background(), Request{URL: srv.URL, AllowErrorStatus: true})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if resp.Status != 404 {
		t.Errorf("Status = %d", resp.Status)
	}
}

func TestTransportPostBody(t *testing.T) {
	var method, ctype, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		ctype = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	resp, err := NewTransport("test", nil).Post(context.Background(), srv.URL, map[string]int{"page": 2})
	if err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if method != http.MethodPost || ctype != "application/json" || body != `{"page":2}` {
		t.Errorf("got %s %s %s", method, ctype, body)
	}

	var out struct{ OK bool }
	if err := resp.JSON(&out); err != nil || !out.OK {
		t.Errorf("JSON() = %+v, %v", out, err)
	}
}

func TestTransportUpdatesRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderLimit, "40")
		w.Header().Set(HeaderRemaining, "12")
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	rate := NewRateLimit()
	tr := NewTransport("test", rate)
	if tr.RateLimit() != rate {
		t.Fatal("RateLimit() should return the shared tracker")
	}
	if _, err := tr.Get(context.Background(), srv.URL); err != nil {
		t.Fatal(err)
	}
	s := rate.Snapshot()
	if s.Limit != 40 || s.Remaining != 12 || !s.Known {
		t.Errorf("Snapshot = %+v", s)
	}
}

func TestTransportNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewTransport("test", nil).Get(context.Background(), url)
	if !errors.Is(err, errors.ErrCodeRemoteTransport) {
		t.Errorf("err = %v, want REMOTE_TRANSPORT", err)
	}
}
