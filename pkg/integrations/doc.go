// Package integrations provides the cache-aside fetcher shared by the
// upstream API clients.
//
// # Overview
//
// Each upstream service has its own subpackage:
//
//   - [tmio]: trackmania.io, players, maps, leaderboards, clubs and more
//   - [tmx]: trackmania.exchange map metadata
//
// Both embed [Client], which decides for every request whether to answer
// from the cache or the origin.
//
// # Cache-aside
//
// [Client.FetchWithCache] implements the lookup:
//
//  1. Read the key from the cache. A hit is returned as is; there is no
//     revalidation against the origin.
//  2. On a miss, call the fetch function.
//  3. If the body is an object with an "error" field, return a
//     REMOTE_SERVICE error and store nothing.
//  4. Otherwise store the raw body with the resource TTL and return it.
//
// The cache is an optimization only. A failing backend degrades every
// lookup to a miss and every write to a no-op; the failure is reported
// through observability hooks and never returned.
//
// Concurrent misses for one key are collapsed with singleflight, so a burst
// of identical requests reaches the origin once.
//
// # Raw documents
//
// [Doc] wraps a decoded JSON object with get-with-default accessors.
// Normalizers in the subpackages project a Doc into typed structs field by
// field, so an absent optional key yields a documented default instead of
// an error. [ParseTime] tries each timestamp layout the services are known
// to send and returns nil for anything else.
//
// [tmio]: github.com/matzehuels/tmio/pkg/integrations/tmio
// [tmx]: github.com/matzehuels/tmio/pkg/integrations/tmx
package integrations
