package tmio

import "time"

// Cache lifetimes per resource. Catalog data changes rarely; leaderboards
// move constantly but trackmania.io only allows around 40 requests per
// window, so pages are kept for an hour or more.
const (
	AdsTTL            = 12 * time.Hour
	MapTTL            = 12 * time.Hour
	PlayerTTL         = 10 * time.Minute
	SearchTTL         = 10 * time.Minute
	TopMatchmakingTTL = time.Hour
	MatchHistoryTTL   = time.Hour
	TopTrophiesTTL    = 3 * time.Hour
	TrophyHistoryTTL  = time.Hour
	LeaderboardTTL    = time.Hour
	COTDTTL           = 2 * time.Hour
	PlayerCOTDTTL     = time.Hour
	ClubTTL           = 3 * time.Hour
	ClubMembersTTL    = 3 * time.Hour
	RoomTTL           = 10 * time.Minute
	PopularRoomsTTL   = 10 * time.Minute
	CampaignTTL       = 5 * 24 * time.Hour
	CampaignsTTL      = time.Hour
	TOTDMonthTTL      = time.Hour
	LatestTOTDTTL     = time.Hour

	// IdentityTTL of zero stores username and account id pairs forever.
	IdentityTTL time.Duration = 0
)

// The new track of the day goes live at 17:00 UTC. Around that moment the
// "latest" pointer is about to change, so it is never cached.
const (
	rolloverStart = 16*time.Hour + 30*time.Minute
	rolloverEnd   = 17*time.Hour + 30*time.Minute
)

// InRollover reports whether t falls in the daily window around the track
// of the day release.
func InRollover(t time.Time) bool {
	since := sinceMidnight(t.UTC())
	return since >= rolloverStart && since < rolloverEnd
}

// latestTOTDTTL returns how long the latest track of the day may be cached
// at now. ok is false inside the rollover window. Outside it the lifetime
// is capped so the entry expires before the next window opens.
func latestTOTDTTL(now time.Time) (ttl time.Duration, ok bool) {
	if InRollover(now) {
		return 0, false
	}
	since := sinceMidnight(now.UTC())
	untilWindow := rolloverStart - since
	if untilWindow <= 0 {
		untilWindow += 24 * time.Hour
	}
	return min(LatestTOTDTTL, untilWindow), true
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
