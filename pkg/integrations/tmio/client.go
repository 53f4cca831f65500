package tmio

import (
	"time"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/integrations"
	"github.com/matzehuels/tmio/pkg/integrations/tmx"
)

// BaseURL is the trackmania.io API root.
const BaseURL = "https://trackmania.io/api"

// Client provides access to the trackmania.io API.
//
// Every lookup goes through the cache-aside fetcher of the embedded
// [integrations.Client]. Objects returned by the client keep a reference to
// it so their relationship methods (Map.Author, Club.Members, ...) can
// resolve related entities on demand.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL  string
	exchange *tmx.Client
	now      func() time.Time
}

// NewClient creates a trackmania.io client. backend may be nil to disable
// caching. prefix namespaces every cache key, e.g. "tmio:".
func NewClient(transport *httputil.Transport, backend cache.Cache, prefix string) *Client {
	return &Client{
		Client:  integrations.NewClient(transport, backend, prefix),
		baseURL: BaseURL,
		now:     time.Now,
	}
}

// SetBaseURL points the client at another API root, mainly for tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// SetExchange enables [Map.Exchange] lookups through x.
func (c *Client) SetExchange(x *tmx.Client) { c.exchange = x }

// Exchange returns the TMX client, or nil when none is set.
func (c *Client) Exchange() *tmx.Client { return c.exchange }

// RateLimit returns the tracker shared with the transport.
func (c *Client) RateLimit() *httputil.RateLimit {
	return c.Transport().RateLimit()
}

func (c *Client) url(segments ...any) string {
	return integrations.JoinURL(c.baseURL, segments...)
}

// notFound tags an in-band service error on an id lookup as NOT_FOUND.
// trackmania.io answers unknown ids with 200 and an "error" field.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, errors.ErrCodeRemoteService) {
		return errors.Wrap(errors.ErrCodeNotFound, err, format, args...)
	}
	return err
}
