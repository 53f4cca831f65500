package cache

import (
	"fmt"
	"strings"
)

// Keyer builds cache keys from a resource name and its identifying parts.
type Keyer interface {
	Key(resource string, parts ...any) string
}

// DefaultKeyer joins the resource and parts with ':'.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// Key formats each part with fmt and joins everything with ':'.
func (DefaultKeyer) Key(resource string, parts ...any) string {
	var b strings.Builder
	b.WriteString(resource)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// ScopedKeyer wraps a Keyer with a prefix so several applications can share
// one Redis database without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "tmio:")
//	k.Key("map", uid) // tmio:map:<uid>
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Key generates a prefixed key.
func (k *ScopedKeyer) Key(resource string, parts ...any) string {
	return k.prefix + k.inner.Key(resource, parts...)
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }
