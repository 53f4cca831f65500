// Package pkg holds the libraries behind tmio, a cached client for the
// trackmania.io and trackmania.exchange web APIs.
//
// # Overview
//
// Every lookup goes through the same path: build a cache key, return the
// cached document when present, otherwise fetch it with a rate-limited
// HTTP transport, store it for a resource-specific TTL and parse it into a
// typed value. The directory is organized into:
//
//  1. [integrations] - the shared fetch-and-cache client and JSON document
//     accessors, with [integrations/tmio] and [integrations/tmx] on top
//  2. [cache] - Redis, file, memory and null backends behind one interface
//  3. [httputil] - the user-agent transport and the rate-limit tracker
//  4. [config] - TOML and environment settings
//  5. [errors] - coded errors and input validation
//  6. [markup] - Trackmania text formatting and display helpers
//  7. [observability] - hooks for cache, HTTP and rate-limit events
//
// # Quick Start
//
// Look up a player by name:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/matzehuels/tmio/pkg/cache"
//	    "github.com/matzehuels/tmio/pkg/httputil"
//	    "github.com/matzehuels/tmio/pkg/integrations/tmio"
//	)
//
//	func main() {
//	    ctx := context.Background()
//
//	    backend := cache.NewRedisCache(cache.DefaultRedisConfig())
//	    defer backend.Close()
//
//	    transport := httputil.NewTransport("my-bot (discord: someone)", httputil.NewRateLimit())
//	    client := tmio.NewClient(transport, backend, "tmio:")
//
//	    player, err := client.ResolvePlayer(ctx, "Wirtual")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(player.Name, player.Trophies.Points)
//	}
//
// # Caching
//
// Keys are namespaced by the prefix given to the client, so several
// applications can share one Redis database. Identity pairs (display name
// to account id and back) are stored without expiry; everything else
// expires after the TTL listed in [integrations/tmio]. Cache failures are
// reported through [observability] and never fail a lookup.
//
// # Errors
//
// Every error carries an [errors.Code]. Use [errors.Is] to branch on it:
//
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such player
//	}
//
// # Rate Limits
//
// trackmania.io reports its remaining budget in response headers.
// [httputil.RateLimit] tracks it and pauses requests when it runs low.
//
// # Command Line
//
// The tmio binary (cmd/tmio) wraps these packages:
//
//	tmio player Wirtual
//	tmio map <uid> --leaderboard 10
//	tmio totd --date 2024-07-14
//	tmio serve --addr 127.0.0.1:8080
package pkg
