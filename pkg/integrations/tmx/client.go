package tmx

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/integrations"
)

// BaseURL is the trackmania.exchange API root.
const BaseURL = "https://trackmania.exchange/api"

// MapTTL is how long map info stays cached. Exchange metadata rarely changes.
const MapTTL = 12 * time.Hour

// Client provides access to the trackmania.exchange API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a TMX client. backend may be nil to disable caching.
func NewClient(transport *httputil.Transport, backend cache.Cache, prefix string) *Client {
	return &Client{
		Client:  integrations.NewClient(transport, backend, prefix),
		baseURL: BaseURL,
	}
}

// SetBaseURL points the client at another API root, mainly for tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Map retrieves the exchange record for a map by its numeric TMX id.
//
// Returns a NOT_FOUND error when the id is unknown. The exchange answers
// unknown ids with a non-object body, which is never cached.
func (c *Client) Map(ctx context.Context, id int) (*Map, error) {
	if id <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tmx id must be positive, got %d", id)
	}

	url := integrations.JoinURL(c.baseURL, "maps", "get_map_info", "id", id)
	fetch := c.Get(url)
	data, err := c.FetchWithCache(ctx, c.Key("tmxmap", id), MapTTL, func(ctx context.Context) ([]byte, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if b := bytes.TrimSpace(data); len(b) == 0 || b[0] != '{' {
			return nil, errors.New(errors.ErrCodeNotFound, "no exchange map with id %d", id)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	d, err := integrations.DecodeDoc(data, url)
	if err != nil {
		return nil, err
	}
	return parseMap(d), nil
}
