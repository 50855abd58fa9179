// Package dedupe tracks idempotency keys so a retried request is applied once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultCapacity = 50000

// Deduper remembers idempotency keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if not. The check and the insert are a single atomic step.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget drops key so a later request with the same key is applied again.
	// Used when the work guarded by the key could not be completed.
	Forget(ctx context.Context, key string)

	// Len returns the number of keys currently remembered.
	Len() int
}

// KeyTracker is a bounded in-memory Deduper. When full, the oldest key is
// evicted first. A capacity <= 0 disables eviction.
type KeyTracker struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is oldest
	index    map[string]*list.Element
}

var _ Deduper = (*KeyTracker)(nil)

// NewKeyTracker creates a tracker holding at most 50 000 keys unless
// WithCapacity says otherwise.
func NewKeyTracker(opts ...Option) *KeyTracker {
	t := &KeyTracker{
		capacity: defaultCapacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SeenAndRecord implements Deduper.
func (t *KeyTracker) SeenAndRecord(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[key]; ok {
		return true
	}
	if t.capacity > 0 {
		for t.order.Len() >= t.capacity {
			t.evictOldest()
		}
	}
	t.index[key] = t.order.PushBack(key)
	return false
}

// Forget implements Deduper.
func (t *KeyTracker) Forget(_ context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if el, ok := t.index[key]; ok {
		t.order.Remove(el)
		delete(t.index, key)
	}
}

// Len implements Deduper.
func (t *KeyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order.Len()
}

// must hold t.mu
func (t *KeyTracker) evictOldest() {
	el := t.order.Front()
	if el == nil {
		return
	}
	t.order.Remove(el)
	delete(t.index, el.Value.(string))
}
