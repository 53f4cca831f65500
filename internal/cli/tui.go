package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tmio/pkg/integrations/tmio"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// playerListModel - Interactive player selection
// =============================================================================

// playerListModel is the bubbletea model behind "tmio search".
type playerListModel struct {
	Players  []tmio.PlayerSearchResult
	Cursor   int
	Selected *tmio.PlayerSearchResult
	Height   int
	Offset   int
}

func newPlayerListModel(players []tmio.PlayerSearchResult) playerListModel {
	return playerListModel{
		Players: players,
		Height:  15,
	}
}

func (m playerListModel) Init() tea.Cmd {
	return nil
}

func (m playerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Players)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Players) == 0 {
				return m, tea.Quit
			}
			p := m.Players[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m playerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Player"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Players) {
		end = len(m.Players)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Players[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		division := iconNone
		if mm := p.Matchmaking.ThreeVThree; mm != nil {
			division = orNone(mm.DivisionLabel())
		}
		rows = append(rows, []string{cursor, displayName(p.ClubTag, p.Name), orNone(zoneChain(p.Zone)), division})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Player", "Zone", "3v3").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Players))))

	return b.String()
}
