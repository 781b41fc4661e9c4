// Package cache provides the keyed stores and the memoizer behind the model
// and document caches.
package cache

import (
	"context"
	"fmt"
	"strings"
)

// Store is a keyed value store. Get reports whether the key was present.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Len(ctx context.Context) (int, error)
}

// Key builds a composite key from an operation name and its arguments. Each
// part is length-prefixed so that distinct argument lists never collide.
func Key(op string, parts ...string) string {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range parts {
		fmt.Fprintf(&b, "|%d:%s", len(p), p)
	}
	return b.String()
}
