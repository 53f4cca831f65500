package httputil

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func header(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

func TestRateLimitUpdate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRateLimit()
	r.now = func() time.Time { return now }

	r.Update(header(HeaderLimit, "40", HeaderRemaining, "39", HeaderReset, "60"))
	s := r.Snapshot()
	if s.Limit != 40 || s.Remaining != 39 {
		t.Errorf("Snapshot = %+v", s)
	}
	if !s.Reset.Equal(now.Add(time.Minute)) {
		t.Errorf("relative reset = %v, want %v", s.Reset, now.Add(time.Minute))
	}

	r.Update(header(HeaderReset, "1700000500"))
	if got := r.Snapshot().Reset.Unix(); got != 1_700_000_500 {
		t.Errorf("absolute reset = %d", got)
	}

	// Malformed values keep the previous state.
	r.Update(header(HeaderRemaining, "lots"))
	if got := r.Snapshot().Remaining; got != 39 {
		t.Errorf("Remaining after malformed header = %d", got)
	}
}

func TestRateLimitShouldPause(t *testing.T) {
	tests := []struct {
		name      string
		remaining string
		want      bool
	}{
		{"unknown", "", false},
		{"plenty", "20", false},
		{"at low water", "5", true},
		{"below low water", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimit()
			if tt.remaining != "" {
				r.Update(header(HeaderRemaining, tt.remaining))
			}
			if got := r.ShouldPause(); got != tt.want {
				t.Errorf("ShouldPause() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRateLimitWait(t *testing.T) {
	var slept time.Duration
	r := NewRateLimit()
	r.Backoff = 42 * time.Second
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	paused, err := r.Wait(context.Background())
	if err != nil || paused {
		t.Fatalf("Wait with unknown state = %v, %v", paused, err)
	}

	r.Update(header(HeaderRemaining, "2"))
	paused, err = r.Wait(context.Background())
	if err != nil || !paused {
		t.Fatalf("Wait below low water = %v, %v", paused, err)
	}
	if slept != 42*time.Second {
		t.Errorf("slept %v, want 42s", slept)
	}
}

func TestRateLimitWaitCanceled(t *testing.T) {
	r := NewRateLimit()
	r.Backoff = time.Hour
	r.Update(header(HeaderRemaining, "0"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paused, err := r.Wait(ctx)
	if !paused {
		t.Error("Wait should report a pause")
	}
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
