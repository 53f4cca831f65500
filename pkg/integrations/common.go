package integrations

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL appends path segments to base, escaping each one.
//
//	JoinURL("https://trackmania.io/api", "player", id, "trophies", 0)
//	// https://trackmania.io/api/player/<id>/trophies/0
func JoinURL(base string, segments ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(fmt.Sprint(s)))
	}
	return b.String()
}

// WithQuery appends query parameters to u. Keys are sorted.
func WithQuery(u string, q url.Values) string {
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// URLEncode escapes s for use in a query string.
func URLEncode(s string) string {
	return url.QueryEscape(s)
}
