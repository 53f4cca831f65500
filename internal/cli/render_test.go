package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmio/pkg/integrations/tmio"
	"github.com/matzehuels/tmio/pkg/observability"
)

func TestZoneChain(t *testing.T) {
	tests := []struct {
		name  string
		zones []string
		want  string
	}{
		{"empty", nil, ""},
		{"world only", []string{"World"}, ""},
		{"full", []string{"Hesse", "Germany", "Europe", "World"}, "Hesse › Germany › Europe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zones := make([]tmio.PlayerZone, len(tt.zones))
			for i, n := range tt.zones {
				zones[i] = tmio.PlayerZone{Name: n}
			}
			if got := zoneChain(zones); got != tt.want {
				t.Errorf("zoneChain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tag, empty := "W1SP", ""
	if got := displayName(&tag, "Wirtual"); got != "[W1SP] Wirtual" {
		t.Errorf("with tag = %q", got)
	}
	if got := displayName(&empty, "Wirtual"); got != "Wirtual" {
		t.Errorf("empty tag = %q", got)
	}
	if got := displayName(nil, "Wirtual"); got != "Wirtual" {
		t.Errorf("nil tag = %q", got)
	}
}

func TestFormatRank(t *testing.T) {
	r := 12345
	if got := formatRank(&r); got != "#12,345" {
		t.Errorf("formatRank(12345) = %q", got)
	}
	if got := formatRank(nil); got != iconNone {
		t.Errorf("formatRank(nil) = %q", got)
	}
}

func TestEmitJSON(t *testing.T) {
	var out bytes.Buffer
	prev := stdout
	stdout = &out
	defer func() { stdout = prev }()

	c := &CLI{asJSON: true}
	rendered := false
	if err := c.emit(map[string]int{"rank": 1}, func() { rendered = true }); err != nil {
		t.Fatal(err)
	}
	if rendered {
		t.Error("render should not run with --json")
	}
	if !strings.Contains(out.String(), `"rank": 1`) {
		t.Errorf("emit wrote %q", out.String())
	}
}

func TestPlayerListModel(t *testing.T) {
	players := []tmio.PlayerSearchResult{
		{ID: "a", Name: "Wirtual"},
		{ID: "b", Name: "Wirtual2"},
	}
	key := func(s string) tea.KeyMsg {
		switch s {
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	t.Run("select second", func(t *testing.T) {
		var m tea.Model = newPlayerListModel(players)
		m, _ = m.Update(key("down"))
		m, _ = m.Update(key("down"))
		m, cmd := m.Update(key("enter"))

		got := m.(playerListModel)
		if got.Selected == nil || got.Selected.ID != "b" {
			t.Errorf("Selected = %+v, want b", got.Selected)
		}
		if cmd == nil {
			t.Error("enter should quit")
		}
	})

	t.Run("quit without selection", func(t *testing.T) {
		m, cmd := newPlayerListModel(players).Update(key("q"))
		if m.(playerListModel).Selected != nil {
			t.Error("q should not select")
		}
		if cmd == nil {
			t.Error("q should quit")
		}
	})

	t.Run("enter on empty list", func(t *testing.T) {
		m, _ := newPlayerListModel(nil).Update(key("enter"))
		if m.(playerListModel).Selected != nil {
			t.Error("empty list should not select")
		}
	})

	t.Run("view lists players", func(t *testing.T) {
		view := newPlayerListModel(players).View()
		if !strings.Contains(view, "Wirtual2") {
			t.Errorf("View() missing player:\n%s", view)
		}
	})
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	registerHooks(newLogger(&buf, log.DebugLevel))

	ctx := context.Background()
	observability.Cache().OnCacheMiss(ctx, "tmio:player:x")
	observability.HTTP().OnResponse(ctx, "GET", "trackmania.io", "/api/player/x", 200, time.Millisecond)
	observability.Cache().OnCacheError(ctx, "set", "tmio:player:x", errors.New("disk full"))

	out := buf.String()
	for _, want := range []string{"cache miss", "tmio:player:x", "response", "cache error", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
