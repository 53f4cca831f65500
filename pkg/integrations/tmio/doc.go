// Package tmio provides a client for the trackmania.io API.
//
// # Usage
//
//	transport := httputil.NewTransport("my-bot (discord: someone)", httputil.NewRateLimit())
//	c := tmio.NewClient(transport, cache.NewMemoryCache(), "tmio:")
//	p, err := c.ResolvePlayer(ctx, "Kappa")
//
// # Objects and relations
//
// Lookups return plain structs: [Player], [Map], [Club], [Room],
// [Campaign], [TOTD] and so on. Related entities are referenced by id and
// resolved on demand through methods such as [Map.Author] or
// [Club.Members]. Each resolution is an independent lookup through the
// cache; nothing is memoized on the object.
//
// # Errors
//
// trackmania.io answers unknown ids with an in-band error object. Lookups
// by id report these as NOT_FOUND, which still matches REMOTE_SERVICE:
//
//	if errors.Is(err, errors.ErrCodeNotFound) { ... }
//
// # Rate limits
//
// The service allows roughly 40 requests per window. Multi-page helpers
// ([Client.PlayerCOTDAll], [Client.MatchHistoryAll]) pause for the
// tracker's backoff when few requests remain.
package tmio
