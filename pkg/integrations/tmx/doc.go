// Package tmx provides a client for the trackmania.exchange map API.
//
// Only map info is exposed:
//
//	c := tmx.NewClient(transport, backend, "tmio:")
//	m, err := c.Map(ctx, 12345)
//
// Results are cached for [MapTTL]. Unknown ids return a NOT_FOUND error.
// The exchange knows maps by numeric id while the game uses uids; use
// [TrackmaniaIO] to jump from an exchange record to the trackmania.io map.
package tmx
