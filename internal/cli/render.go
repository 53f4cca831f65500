package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tmio/pkg/integrations/tmio"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
	"github.com/matzehuels/tmio/pkg/markup"
)

// emit writes v as indented JSON when --json is set, otherwise calls render.
func (c *CLI) emit(v any, render func()) error {
	if !c.asJSON {
		render()
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

// =============================================================================
// Formatting helpers
// =============================================================================

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatRank(r *int) string {
	if r == nil {
		return iconNone
	}
	return "#" + markup.FormatThousands(int64(*r))
}

func itoa(n int) string { return strconv.Itoa(n) }

func thousands(n int) string { return markup.FormatThousands(int64(n)) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// zoneChain renders the zones most local first, e.g. "Hesse › Germany › Europe".
// The World level is dropped since every player shares it.
func zoneChain(zones []tmio.PlayerZone) string {
	names := make([]string, 0, len(zones))
	for _, z := range zones {
		if z.Name == "World" {
			continue
		}
		names = append(names, z.Name)
	}
	return strings.Join(names, " "+iconInfo+" ")
}

// displayName joins a club tag and a name, "[TAG] Name".
func displayName(tag *string, name string) string {
	if t := deref(tag); t != "" {
		return "[" + t + "] " + name
	}
	return name
}

// =============================================================================
// Players
// =============================================================================

func renderPlayer(p *tmio.Player) {
	printTitle(displayName(p.ClubTag, p.Name), p.ID)
	printKeyValue("First login", formatDate(p.FirstLogin))
	printKeyValue("Zone", zoneChain(p.Zone))

	if p.Trophies != nil {
		t := p.Trophies
		printKeyValue("Trophies", fmt.Sprintf("%s points, echelon %d", markup.FormatThousands(t.Points), t.Echelon))
	}
	renderMatchmaking(p.Matchmaking)

	m := p.Meta
	printKeyValue("Twitch", deref(m.Twitch))
	printKeyValue("YouTube", deref(m.YouTube))
	printKeyValue("Twitter", deref(m.Twitter))
	if m.Nadeo {
		printKeyValue("Staff", "Nadeo")
	}
	if m.Sponsor {
		printKeyValue("Sponsor", "level "+itoa(m.SponsorLevel))
	}

	if len(p.Zone) > 0 {
		printNewline()
		rows := make([][]string, len(p.Zone))
		for i, z := range p.Zone {
			rows[i] = []string{z.Name, formatRank(z.Rank)}
		}
		printTable([]string{"Zone", "Rank"}, rows, 1)
	}
}

func renderMatchmaking(m tmio.Matchmaking) {
	for _, pm := range []*tmio.PlayerMatchmaking{m.ThreeVThree, m.Royal} {
		if pm == nil {
			continue
		}
		v := fmt.Sprintf("#%s, %d pts, %s (%.0f%%)",
			thousands(pm.Rank), pm.Score, orNone(pm.DivisionLabel()), pm.Progress)
		printKeyValue(pm.Type.String(), v)
	}
}

func renderTrophies(p *tmio.Player) {
	t := p.Trophies
	printTitle(displayName(p.ClubTag, p.Name), markup.FormatThousands(t.Points)+" trophy points")
	rows := make([][]string, 0, tmio.TrophyTiers)
	for i, n := range t.Counts {
		rows = append(rows, []string{fmt.Sprintf("T%d", i+1), thousands(n)})
	}
	printTable([]string{"Tier", "Count"}, rows, 1)
	printKeyValue("Echelon", itoa(t.Echelon))
	printKeyValue("Last change", formatDate(t.LastChange))
}

func renderTrophyHistory(gains []tmio.TrophyGain) {
	rows := make([][]string, len(gains))
	for i, g := range gains {
		counts := make([]string, 0, len(g.Counts))
		for tier, n := range g.Counts {
			if n > 0 {
				counts = append(counts, fmt.Sprintf("T%d×%d", tier+1, n))
			}
		}
		rows[i] = []string{formatDate(g.Timestamp), g.Type, itoa(g.Rank), orNone(strings.Join(counts, " "))}
	}
	printTable([]string{"When", "Source", "Rank", "Trophies"}, rows, 2)
}

func renderSearch(results []tmio.PlayerSearchResult) {
	rows := make([][]string, len(results))
	for i, r := range results {
		rank := iconNone
		if mm := r.Matchmaking.ThreeVThree; mm != nil {
			rank = orNone(mm.DivisionLabel())
		}
		rows[i] = []string{displayName(r.ClubTag, r.Name), r.ID, orNone(zoneChain(r.Zone)), rank}
	}
	printTable([]string{"Player", "Account", "Zone", "3v3"}, rows)
}

func renderTopTrophies(entries []tmio.TrophyLeaderboardEntry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{itoa(e.Rank), displayName(e.ClubTag, e.PlayerName), markup.FormatThousands(e.Score), orNone(zoneChain(e.Zone))}
	}
	printTable([]string{"#", "Player", "Points", "Zone"}, rows, 0, 2)
}

func renderTopMatchmaking(entries []tmio.MatchmakingLeaderboardEntry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{itoa(e.Rank), displayName(e.ClubTag, e.PlayerName), itoa(e.Score), orNone(tmio.DivisionLabel(e.Division))}
	}
	printTable([]string{"#", "Player", "Score", "Division"}, rows, 0, 2)
}

// =============================================================================
// Maps
// =============================================================================

func renderMap(m *tmio.Map) {
	printTitle(m.Name, m.UID)
	printKeyValue("Author", m.AuthorName)
	if m.SubmitterName != "" && m.SubmitterName != m.AuthorName {
		printKeyValue("Submitter", m.SubmitterName)
	}
	printKeyValue("Uploaded", formatDate(m.Uploaded))
	printKeyValue("Author time", tmio.FormatTime(m.Medals.Author))
	printKeyValue("Gold", tmio.FormatTime(m.Medals.Gold))
	printKeyValue("Silver", tmio.FormatTime(m.Medals.Silver))
	printKeyValue("Bronze", tmio.FormatTime(m.Medals.Bronze))
	if m.ExchangeID != nil {
		printKeyValue("TMX", itoa(*m.ExchangeID))
	}
}

func renderLeaderboard(entries []tmio.LeaderboardEntry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{itoa(e.Position), displayName(e.PlayerTag, e.PlayerName), tmio.FormatTime(e.Time), formatDate(e.Timestamp)}
	}
	printTable([]string{"#", "Player", "Time", "Driven"}, rows, 0, 2)
}

func renderTOTD(t *tmio.TOTD) {
	printTitle("Track of the Day", fmt.Sprintf("day %d", t.MonthDay))
	renderMap(&t.Map)
}

func renderExchangeMap(m *tmx.Map) {
	printTitle(m.Name, "TMX "+itoa(m.ID))
	printKeyValue("Uploader", m.Username)
	printKeyValue("UID", m.UID)
	printKeyValue("Difficulty", m.Difficulty)
	printKeyValue("Length", m.LengthName)
	if len(m.Tags) > 0 {
		names := make([]string, len(m.Tags))
		for i, tag := range m.Tags {
			names[i] = tag.String()
		}
		printKeyValue("Tags", strings.Join(names, ", "))
	}
	printKeyValue("Author time", tmio.FormatTime(m.Gbx.AuthorTime))
	if wr := m.WorldRecord; wr != nil {
		printKeyValue("TMX record", tmio.FormatTime(wr.Time)+" by "+wr.Username)
	}
	printKeyValue("Awards", itoa(m.Metadata.AwardCount))
	printKeyValue("Uploaded", formatDate(m.Uploaded))
}

// =============================================================================
// Cups
// =============================================================================

func renderCOTDList(cups []tmio.COTD) {
	rows := make([][]string, len(cups))
	for i, cup := range cups {
		rows[i] = []string{itoa(cup.ID), cup.Name, thousands(cup.Players), formatDate(cup.Start)}
	}
	printTable([]string{"ID", "Cup", "Players", "Start"}, rows, 0, 2)
}

func renderPlayerCOTD(p *tmio.PlayerCOTD) {
	s := p.Stats
	printTitle("Cup of the Day", fmt.Sprintf("%d cups played", p.Total))
	printKeyValue("Wins", itoa(s.TotalWins))
	printKeyValue("Division wins", itoa(s.TotalDivWins))
	printKeyValue("Average rank", fmt.Sprintf("%.1f", s.AverageRank))
	printKeyValue("Average div", fmt.Sprintf("%.1f", s.AverageDiv))
	printKeyValue("Best rank", itoa(s.BestOverall.BestRank))
	printKeyValue("Best division", itoa(s.BestOverall.BestDiv))

	if len(p.Results) == 0 {
		return
	}
	printNewline()
	rows := make([][]string, len(p.Results))
	for i, r := range p.Results {
		rows[i] = []string{formatDate(r.Timestamp), itoa(r.Div), formatRank(r.DivRank), fmt.Sprintf("%d/%d", r.Rank, r.TotalPlayers)}
	}
	printTable([]string{"When", "Div", "Div rank", "Overall"}, rows, 1, 2, 3)
}

// =============================================================================
// Clubs, rooms, campaigns, ads
// =============================================================================

func renderClub(cl *tmio.Club) {
	printTitle(cl.Name, "club "+itoa(cl.ID))
	printKeyValue("Tag", cl.Tag)
	printKeyValue("Members", thousands(cl.MemberCount))
	printKeyValue("Popularity", thousands(cl.Popularity))
	printKeyValue("State", cl.State)
	printKeyValue("Featured", yesNo(cl.Featured))
	printKeyValue("Created", formatDate(cl.CreatedAt))
	if d := strings.TrimSpace(cl.Description); d != "" {
		printNewline()
		fmt.Fprintln(stdout, StyleDim.Render(d))
	}
}

func renderMembers(members []tmio.ClubMember) {
	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{displayName(m.Tag, m.PlayerName), m.Role, formatDate(m.JoinTime)}
	}
	printTable([]string{"Member", "Role", "Joined"}, rows)
}

func renderRoom(r *tmio.Room) {
	printTitle(r.Name, fmt.Sprintf("room %d in club %d", r.ID, r.ClubID))
	printKeyValue("Players", fmt.Sprintf("%d/%d", r.PlayerCount, r.MaxPlayers))
	printKeyValue("Region", r.Region)
	printKeyValue("Mode", r.Script)
	printKeyValue("Login", r.Login)
	if len(r.Maps) > 0 {
		printNewline()
		renderMapList(r.Maps)
	}
}

func renderMapList(maps []tmio.Map) {
	rows := make([][]string, len(maps))
	for i, m := range maps {
		rows[i] = []string{itoa(i + 1), m.Name, m.AuthorName, tmio.FormatTime(m.Medals.Author)}
	}
	printTable([]string{"#", "Map", "Author", "AT"}, rows, 0, 3)
}

func renderCampaign(camp *tmio.Campaign) {
	sub := fmt.Sprintf("campaign %d", camp.ID)
	if camp.Official {
		sub = "official " + sub
	} else {
		sub += fmt.Sprintf(" in club %d", camp.ClubID)
	}
	printTitle(camp.Name, sub)
	printKeyValue("Leaderboard", camp.LeaderboardUID)
	if len(camp.Maps) > 0 {
		printNewline()
		renderMapList(camp.Maps)
	}
}

func renderCampaignLeaderboard(entries []tmio.CampaignLeaderboardEntry) {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{itoa(e.Position), e.PlayerName, thousands(e.Points)}
	}
	printTable([]string{"#", "Player", "Points"}, rows, 0, 2)
}

func renderAds(ads []tmio.Ad) {
	rows := make([][]string, len(ads))
	for i, ad := range ads {
		rows[i] = []string{ad.Name, ad.Type, ad.UID, orNone(ad.URL)}
	}
	printTable([]string{"Ad", "Type", "UID", "Link"}, rows)
}
