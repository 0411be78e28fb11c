package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type instance[T any] struct {
	value T
	seen  time.Time
}

// registry holds the live page instances of one form page. Every page load
// registers a fresh instance; instances idle longer than ttl are dropped on
// the next registration. At most max instances are kept, the least recently
// used one is evicted to make room.
type registry[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	now   func() time.Time
	items map[string]*instance[T]
}

func newRegistry[T any](ttl time.Duration, limit int) *registry[T] {
	return &registry[T]{
		ttl:   ttl,
		max:   limit,
		now:   time.Now,
		items: make(map[string]*instance[T]),
	}
}

func (r *registry[T]) add(v T) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, it := range r.items {
		if now.Sub(it.seen) > r.ttl {
			delete(r.items, id)
		}
	}
	for r.max > 0 && len(r.items) >= r.max {
		r.evictOldest()
	}

	id := uuid.NewString()
	r.items[id] = &instance[T]{value: v, seen: now}
	return id
}

func (r *registry[T]) get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	if _, err := uuid.Parse(id); err != nil {
		return zero, false
	}
	it, ok := r.items[id]
	if !ok {
		return zero, false
	}
	now := r.now()
	if now.Sub(it.seen) > r.ttl {
		delete(r.items, id)
		return zero, false
	}
	it.seen = now
	return it.value, true
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// evictOldest runs with r.mu held.
func (r *registry[T]) evictOldest() {
	var oldest string
	var seen time.Time
	for id, it := range r.items {
		if oldest == "" || it.seen.Before(seen) {
			oldest, seen = id, it.seen
		}
	}
	delete(r.items, oldest)
}
