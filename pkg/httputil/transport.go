package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tmio/pkg/errors"
	"github.com/matzehuels/tmio/pkg/observability"
)

const (
	// LibraryName is appended to every User-Agent header.
	LibraryName = "tmio"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 32 << 20
)

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Transport issues requests against the upstream APIs.
// It is safe for concurrent use.
type Transport struct {
	http      *http.Client
	userAgent string
	rate      *RateLimit
}

// NewTransport creates a transport. userAgent identifies the calling
// application; rate may be nil, in which case a fresh tracker is created.
func NewTransport(userAgent string, rate *RateLimit) *Transport {
	if rate == nil {
		rate = NewRateLimit()
	}
	return &Transport{
		http:      NewHTTPClient(),
		userAgent: strings.TrimSpace(userAgent),
		rate:      rate,
	}
}

// SetHTTPClient replaces the underlying client.
func (t *Transport) SetHTTPClient(c *http.Client) {
	t.http = c
}

// RateLimit returns the tracker updated by this transport.
func (t *Transport) RateLimit() *RateLimit { return t.rate }

// UserAgent returns the full header value sent with each request, or an
// empty string when no user agent is configured.
func (t *Transport) UserAgent() string {
	if t.userAgent == "" {
		return ""
	}
	return t.userAgent + " | via " + LibraryName
}

// Request describes one call. Body, when set, is sent JSON-encoded.
// AllowErrorStatus suppresses the error for status >= 400 so callers can
// inspect the response themselves.
type Request struct {
	Method           string
	URL              string
	Body             any
	AllowErrorStatus bool
}

// Response is a fully read response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Get performs a GET request.
func (t *Transport) Get(ctx context.Context, url string) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodGet, URL: url})
}

// Post performs a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, url string, body any) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPost, URL: url, Body: body})
}

// Put performs a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, url string, body any) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPut, URL: url, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (t *Transport) Patch(ctx context.Context, url string, body any) (*Response, error) {
	return t.Do(ctx, Request{Method: http.MethodPatch, URL: url, Body: body})
}

// Do performs the request and reads the whole body.
func (t *Transport) Do(ctx context.Context, r Request) (*Response, error) {
	ua := t.UserAgent()
	if ua == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "no user agent has been set")
	}
	if r.Method == "" {
		r.Method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, r.Method, host, path)
	start := time.Now()

	resp, err := t.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, r.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeRemoteTransport, err, "%s %s", r.Method, r.URL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		hooks.OnError(ctx, r.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeRemoteTransport, err, "read %s", r.URL)
	}

	t.rate.Update(resp.Header)
	hooks.OnResponse(ctx, r.Method, host, path, resp.StatusCode, time.Since(start))

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}
	if resp.StatusCode >= 400 && !r.AllowErrorStatus {
		return out, statusError(r, out)
	}
	return out, nil
}

func statusError(r Request, resp *Response) error {
	remote := &errors.RemoteError{Status: resp.Status}
	var parsed any
	if len(resp.Body) > 0 && json.Unmarshal(resp.Body, &parsed) == nil {
		remote.JSON = parsed
	} else {
		remote.Text = string(resp.Body)
	}

	switch resp.Status {
	case http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, remote, "%s %s", r.Method, r.URL)
	case http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &errors.RateLimitedError{RetryAfter: retry, Remote: remote}
	default:
		return errors.Wrap(errors.ErrCodeRemoteTransport, remote, "%s %s", r.Method, r.URL)
	}
}
