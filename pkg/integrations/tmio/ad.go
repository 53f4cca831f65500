package tmio

import (
	"context"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/integrations"
)

// Ad is an in-game advertisement shown on Nadeo servers.
type Ad struct {
	UID           string
	Name          string
	Type          string
	URL           string
	Img2x3        string
	Img16x9       string
	Img64x10      string
	Media         string
	DisplayFormat string
}

// Ads returns every active advertisement.
func (c *Client) Ads(ctx context.Context) ([]Ad, error) {
	d, err := c.FetchDoc(ctx, c.adsKey(), AdsTTL, c.url("ads"))
	if err != nil {
		return nil, err
	}
	list := d.Docs("ads")
	out := make([]Ad, 0, len(list))
	for _, a := range list {
		out = append(out, parseAd(a))
	}
	return out, nil
}

// Ad returns the advertisement with the given uid. It shares the cached
// list with [Client.Ads].
func (c *Client) Ad(ctx context.Context, uid string) (*Ad, error) {
	if uid == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "ad uid cannot be empty")
	}
	ads, err := c.Ads(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ads {
		if ads[i].UID == uid {
			return &ads[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no ad with uid %s", uid)
}

func parseAd(d integrations.Doc) Ad {
	return Ad{
		UID:           d.String("uid", ""),
		Name:          d.String("name", ""),
		Type:          d.String("type", ""),
		URL:           d.String("url", ""),
		Img2x3:        d.String("img2x3", ""),
		Img16x9:       d.String("img16x9", ""),
		Img64x10:      d.String("img64x10", ""),
		Media:         d.String("media", ""),
		DisplayFormat: d.String("displayformat", ""),
	}
}
