package cache

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// EvictionPolicy decides which keys a MemoryStore drops. Implementations are
// called with the store lock held and need no locking of their own.
type EvictionPolicy interface {
	// Touch records a read of key.
	Touch(key string)
	// Add records a write of key and returns the keys to evict.
	Add(key string) []string
}

type unbounded struct{}

// Unbounded never evicts.
func Unbounded() EvictionPolicy { return unbounded{} }

func (unbounded) Touch(string) {}
func (unbounded) Add(string) []string { return nil }

type lruPolicy struct {
	lru     *simplelru.LRU[string, struct{}]
	evicted []string
}

// NewLRU keeps at most size keys, evicting the least recently used.
func NewLRU(size int) (EvictionPolicy, error) {
	p := &lruPolicy{}
	lru, err := simplelru.NewLRU[string, struct{}](size, func(key string, _ struct{}) {
		p.evicted = append(p.evicted, key)
	})
	if err != nil {
		return nil, err
	}
	p.lru = lru
	return p, nil
}

func (p *lruPolicy) Touch(key string) {
	p.lru.Get(key)
}

func (p *lruPolicy) Add(key string) []string {
	p.evicted = nil
	p.lru.Add(key, struct{}{})
	return p.evicted
}

// NewPolicy returns the policy named in configuration: "lru" bounded by
// maxEntries, anything else unbounded.
func NewPolicy(name string, maxEntries int) (EvictionPolicy, error) {
	if name == "lru" {
		return NewLRU(maxEntries)
	}
	return Unbounded(), nil
}

var _ Store[int] = &MemoryStore[int]{}

// MemoryStore is an in-process Store safe for concurrent use.
type MemoryStore[V any] struct {
	mu     sync.Mutex
	items  map[string]V
	policy EvictionPolicy
}

// NewMemoryStore returns an empty store. A nil policy means Unbounded.
func NewMemoryStore[V any](policy EvictionPolicy) *MemoryStore[V] {
	if policy == nil {
		policy = Unbounded()
	}
	return &MemoryStore[V]{items: make(map[string]V), policy: policy}
}

func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		s.policy.Touch(key)
	}
	return v, ok, nil
}

func (s *MemoryStore[V]) Set(_ context.Context, key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	for _, k := range s.policy.Add(key) {
		delete(s.items, k)
	}
	return nil
}

func (s *MemoryStore[V]) Len(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}
