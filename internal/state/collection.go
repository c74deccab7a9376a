package state

import (
	"slices"
	"sync"
)

// Collection is an ordered list of records that readers observe and only
// the Controller mutates. Every change bumps Version and wakes subscribers.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	version uint64
	subs    map[int]chan struct{}
	nextSub int
}

func newCollection[T any]() *Collection[T] {
	return &Collection[T]{subs: make(map[int]chan struct{})}
}

// Snapshot returns a copy of the current entries in order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of entries.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the entry at position i.
func (c *Collection[T]) At(i int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Find returns the first entry matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := slices.IndexFunc(c.items, pred); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Version counts the changes applied so far.
func (c *Collection[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Subscribe returns a channel that receives a value after changes. Bursts
// coalesce into a single pending notification. cancel stops delivery and
// closes the channel.
func (c *Collection[T]) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// replaceAll swaps in items as the full contents.
func (c *Collection[T]) replaceAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.Clone(items)
	c.changed()
}

// clear empties the collection.
func (c *Collection[T]) clear() {
	c.replaceAll(nil)
}

// replaceFirst overwrites the first entry matching pred. It reports false
// and leaves the collection untouched when nothing matches.
func (c *Collection[T]) replaceFirst(pred func(T) bool, v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.items, pred)
	if i < 0 {
		return false
	}
	c.items[i] = v
	c.changed()
	return true
}

// removeAll drops every entry matching pred and returns how many went.
func (c *Collection[T]) removeAll(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, pred)
	removed := before - len(c.items)
	if removed > 0 {
		c.changed()
	}
	return removed
}

// changed must be called with c.mu held for writing.
func (c *Collection[T]) changed() {
	c.version++
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
