package integrations

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/tmio/pkg/cache"
	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/httputil"
	"github.com/matzehuels/tmio/pkg/observability"
)

// FetchFunc loads one document from the origin and returns its raw JSON.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Client is the cache-aside fetcher shared by all upstream API clients.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	transport *httputil.Transport
	cache     cache.Cache
	keys      cache.Keyer
	group     singleflight.Group
}

// NewClient creates a Client. A nil backend disables caching. Keys are
// namespaced with prefix, which may be empty.
func NewClient(transport *httputil.Transport, backend cache.Cache, prefix string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		transport: transport,
		cache:     backend,
		keys:      cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix),
	}
}

// Transport returns the underlying HTTP transport.
func (c *Client) Transport() *httputil.Transport { return c.transport }

// Cache returns the cache backend.
func (c *Client) Cache() cache.Cache { return c.cache }

// Key builds the cache key for a resource, including the namespace prefix.
func (c *Client) Key(resource string, parts ...any) string {
	return c.keys.Key(resource, parts...)
}

// FetchWithCache returns the cached document stored under key, or calls
// fetch and stores its result for ttl. A ttl of zero stores without expiry.
//
// Cached values are trusted until they expire; nothing is revalidated.
// A document that is a JSON object with an "error" field is returned as a
// REMOTE_SERVICE error and never stored. Cache backend failures are
// reported through [observability.CacheHooks] and otherwise ignored.
//
// Concurrent misses for the same key share one call to fetch.
func (c *Client) FetchWithCache(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	hooks := observability.Cache()

	if data, ok := c.lookup(ctx, key); ok {
		hooks.OnCacheHit(ctx, key)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, key)

	// The shared call outlives any single caller; each caller still
	// stops waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		data, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		if err := serviceError(data); err != nil {
			return nil, err
		}
		if err := c.cache.Set(shared, key, data, ttl); err != nil {
			hooks.OnCacheError(shared, "set", key, err)
		} else {
			hooks.OnCacheSet(shared, key, len(data), ttl)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// lookup reads key from the cache. Backend errors and undecodable values
// count as a miss.
func (c *Client) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, "get", key, err)
		return nil, false
	}
	if !ok || !json.Valid(data) {
		return nil, false
	}
	return data, true
}

// Fetch calls fetch and applies the in-band error check without reading
// or writing the cache.
func (c *Client) Fetch(ctx context.Context, fetch FetchFunc) ([]byte, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := serviceError(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Remember stores v under key without expiry. Failures are reported
// through hooks only.
func (c *Client) Remember(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, 0); err != nil {
		observability.Cache().OnCacheError(ctx, "set", key, err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data), 0)
}

// Recall decodes the value stored under key into v and reports whether it
// was found.
func (c *Client) Recall(ctx context.Context, key string, v any) bool {
	data, ok := c.lookup(ctx, key)
	if !ok || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, key)
		return false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return true
}

// FetchDoc fetches url through the cache and decodes a JSON object.
func (c *Client) FetchDoc(ctx context.Context, key string, ttl time.Duration, url string) (Doc, error) {
	data, err := c.FetchWithCache(ctx, key, ttl, c.Get(url))
	if err != nil {
		return nil, err
	}
	return DecodeDoc(data, url)
}

// DecodeDoc decodes data as a JSON object. source names the origin in
// the error message.
func DecodeDoc(data []byte, source string) (Doc, error) {
	var d Doc
	if err := json.Unmarshal(data, &d); err != nil || d == nil {
		return nil, errors.New(errors.ErrCodeRemoteService, "expected a JSON object from %s", source)
	}
	return d, nil
}

// FetchList fetches url through the cache and decodes a JSON array of
// objects. Elements that are not objects are skipped.
func (c *Client) FetchList(ctx context.Context, key string, ttl time.Duration, url string) ([]Doc, error) {
	data, err := c.FetchWithCache(ctx, key, ttl, c.Get(url))
	if err != nil {
		return nil, err
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.ErrCodeRemoteService, "expected a JSON array from %s", url)
	}
	return docs(raw), nil
}

// Get returns a FetchFunc that performs a GET against url.
func (c *Client) Get(url string) FetchFunc {
	return func(ctx context.Context) ([]byte, error) {
		resp, err := c.transport.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}
}

// serviceError detects an in-band error: a 2xx object carrying "error".
func serviceError(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var probe struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil || probe.Error == nil {
		return nil
	}
	var msg string
	if json.Unmarshal(probe.Error, &msg) != nil {
		msg = string(probe.Error)
	}
	if msg == "" {
		msg = "service error"
	}
	return errors.New(errors.ErrCodeRemoteService, "%s", msg)
}
