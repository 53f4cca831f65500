package tmio

import (
	"context"
	"time"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
)

// TOTD is one track of the day.
type TOTD struct {
	CampaignID     int
	LeaderboardUID string
	MonthDay       int
	WeekDay        int
	Map            Map
}

// Leaderboard fetches a page of the track's records.
func (t *TOTD) Leaderboard(ctx context.Context, offset, length int) ([]LeaderboardEntry, error) {
	return t.Map.Leaderboard(ctx, offset, length)
}

// totdMonth is the decoded totd/{offset} document.
type totdMonth struct {
	days    []integrations.Doc
	lastDay int
}

// day returns the published track for a 1-based day of the month.
func (m totdMonth) day(n int) (integrations.Doc, bool) {
	if n < 1 || n > m.lastDay || n > len(m.days) {
		return nil, false
	}
	return m.days[n-1], true
}

// latest returns the most recently published track of the month.
func (m totdMonth) latest() (integrations.Doc, bool) {
	if d, ok := m.day(m.lastDay); ok {
		return d, true
	}
	if len(m.days) == 0 {
		return nil, false
	}
	return m.days[len(m.days)-1], true
}

func decodeTOTDMonth(d integrations.Doc) totdMonth {
	return totdMonth{days: d.Docs("days"), lastDay: d.Int("lastday", 0)}
}

// TOTD retrieves the track of the day published on date. Only the calendar
// day of date in UTC is used. Dates in the future or past the last
// published day of their month return INVALID_TOTD_DATE.
func (c *Client) TOTD(ctx context.Context, date time.Time) (*TOTD, error) {
	date = date.UTC()
	offset := monthOffset(c.now().UTC(), date)
	if offset < 0 {
		return nil, errors.New(errors.ErrCodeInvalidTOTDDate, "%s is in the future", date.Format(time.DateOnly))
	}

	d, err := c.fetchTOTDMonth(ctx, date, offset)
	if err != nil {
		return nil, err
	}
	month := decodeTOTDMonth(d)
	day, ok := month.day(date.Day())
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTOTDDate,
			"no track of the day on %s, the last published day is %d", date.Format(time.DateOnly), month.lastDay)
	}
	return c.parseTOTD(day), nil
}

// fetchTOTDMonth loads the month document offset months back. The current
// month follows the same rollover policy as the latest track.
func (c *Client) fetchTOTDMonth(ctx context.Context, date time.Time, offset int) (integrations.Doc, error) {
	u := c.url("totd", offset)
	if offset != 0 {
		return c.FetchDoc(ctx, c.totdMonthKey(date), TOTDMonthTTL, u)
	}

	ttl, ok := latestTOTDTTL(c.now())
	if ok {
		return c.FetchDoc(ctx, c.totdMonthKey(date), min(ttl, TOTDMonthTTL), u)
	}
	data, err := c.Fetch(ctx, c.Get(u))
	if err != nil {
		return nil, err
	}
	return integrations.DecodeDoc(data, "totd/0")
}

// LatestTOTD retrieves the most recently published track of the day.
//
// During the daily rollover window the result is fetched directly and never
// cached. Outside it, the cached copy expires before the next window.
func (c *Client) LatestTOTD(ctx context.Context) (*TOTD, error) {
	now := c.now()
	fetch := c.Get(c.url("totd", 0))

	var (
		data []byte
		err  error
	)
	if ttl, ok := latestTOTDTTL(now); ok {
		data, err = c.FetchWithCache(ctx, c.latestTOTDKey(), ttl, fetch)
	} else {
		data, err = c.Fetch(ctx, fetch)
	}
	if err != nil {
		return nil, err
	}

	d, err := integrations.DecodeDoc(data, "totd/0")
	if err != nil {
		return nil, err
	}
	if day, ok := decodeTOTDMonth(d).latest(); ok {
		return c.parseTOTD(day), nil
	}

	// Nothing published yet this month: the latest track is the last one
	// of the previous month.
	prev, err := c.FetchDoc(ctx, c.totdMonthKey(now.UTC().AddDate(0, 0, -now.UTC().Day())), TOTDMonthTTL, c.url("totd", 1))
	if err != nil {
		return nil, err
	}
	if day, ok := decodeTOTDMonth(prev).latest(); ok {
		return c.parseTOTD(day), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no track of the day published")
}

// monthOffset counts calendar months from date back to now. It is negative
// when date lies in a later month.
func monthOffset(now, date time.Time) int {
	return (now.Year()-date.Year())*12 + int(now.Month()) - int(date.Month())
}

func (c *Client) parseTOTD(d integrations.Doc) *TOTD {
	t := &TOTD{
		CampaignID:     d.Int("campaignid", 0),
		LeaderboardUID: d.String("leaderboarduid", ""),
		MonthDay:       d.Int("monthday", 0),
		WeekDay:        d.Int("weekday", 0),
	}
	if m := d.Doc("map"); m != nil {
		t.Map = *parseMap(m)
	}
	t.Map.client = c
	return t
}
