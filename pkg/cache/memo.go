package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/metrics"
)

var log = internal.GetLogger()

// Stats counts Memo lookups. Misses counts runs of the load function.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Memo memoizes a load function over a Store. Concurrent calls for the same
// key share one load, and failed loads are never stored.
type Memo[V any] struct {
	name   string
	store  Store[V]
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo returns a memoizer reporting to metrics under name.
func NewMemo[V any](name string, store Store[V]) *Memo[V] {
	return &Memo[V]{name: name, store: store}
}

// Do returns the value stored under key, calling load on a miss. A failing
// store is logged and treated as a miss so that lookups keep working.
//
// The shared load runs detached from any one caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (m *Memo[V]) Do(
	ctx context.Context,
	key string,
	load func(ctx context.Context) (V, error),
) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if v, ok := m.lookup(ctx, key); ok {
		return v, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		// another flight may have stored it between lookup and Do
		if v, ok := m.lookup(flightCtx, key); ok {
			return v, nil
		}

		m.misses.Add(1)
		metrics.CacheRequests.WithLabelValues(m.name, "miss").Inc()

		v, err := load(flightCtx)
		if err != nil {
			return v, err
		}
		if err := m.store.Set(flightCtx, key, v); err != nil {
			metrics.CacheErrors.WithLabelValues(m.name, "set").Inc()
			log.Warnf("%s cache: failed to store value: %v", m.name, err)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (m *Memo[V]) lookup(ctx context.Context, key string) (V, bool) {
	v, ok, err := m.store.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.WithLabelValues(m.name, "get").Inc()
		log.Warnf("%s cache: lookup failed, recomputing: %v", m.name, err)
		return v, false
	}
	if ok {
		m.hits.Add(1)
		metrics.CacheRequests.WithLabelValues(m.name, "hit").Inc()
	}
	return v, ok
}

func (m *Memo[V]) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Len returns the number of stored entries.
func (m *Memo[V]) Len(ctx context.Context) (int, error) {
	return m.store.Len(ctx)
}
