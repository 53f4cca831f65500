// Package httputil provides the HTTP transport shared by the API clients.
//
// # Overview
//
// This package provides infrastructure used by every upstream client:
//
//   - [Transport]: one request in, status plus body out, typed errors on
//     non-2xx responses
//   - [RateLimit]: counters fed from x-ratelimit-* response headers
//
// # Transport
//
// Every request carries the header
//
//	User-Agent: <configured value> | via tmio
//
// trackmania.io rejects anonymous traffic, so a [Transport] without a user
// agent fails with a CONFIGURATION error before dialing anything.
//
// Responses with status >= 400 become an [errors.RemoteError] holding the
// decoded JSON body, or the raw text when the body is not JSON. 404 is
// additionally tagged NOT_FOUND and 429 becomes [errors.RateLimitedError].
// Nothing is retried here.
//
// # Rate limits
//
// [RateLimit] records the most recent limit and remaining values. Loops that
// walk many pages call [RateLimit.Wait] between pages; it sleeps a fixed
// backoff once remaining drops to the low-water mark:
//
//	for page := 0; ; page++ {
//	    if _, err := rate.Wait(ctx); err != nil {
//	        return err
//	    }
//	    // fetch page
//	}
package httputil
