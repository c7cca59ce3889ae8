package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// ErrFull is returned by Add when every entry is still live.
var ErrFull = errors.New("cache full")

// LRU is a size-bounded cache whose entries also expire at a deadline.
// When full, the least recently used entry is evicted.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List
	now     func() time.Time
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// NewLRU creates a cache holding at most maxSize entries, each living ttl by default.
func NewLRU[T any](maxSize int, ttl time.Duration) *LRU[T] {
	return &LRU[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *LRU[T]) WithClock(now func() time.Time) *LRU[T] {
	c.now = now
	return c
}

func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if !c.now().Before(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)

	return e.value, true
}

// Contains reports whether key is present and not expired.
func (c *LRU[T]) Contains(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value with the default TTL.
func (c *LRU[T]) Set(key string, value T) {
	c.SetUntil(key, value, c.now().Add(c.ttl))
}

// SetUntil stores value until the given deadline.
func (c *LRU[T]) SetUntil(key string, value T, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, expiresAt: expiresAt}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)

		return
	}

	c.items[key] = c.order.PushFront(e)

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Add stores value until expiresAt without evicting live entries. When the
// cache is full, expired entries are purged first; if none are, Add returns ErrFull.
func (c *LRU[T]) Add(key string, value T, expiresAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, expiresAt: expiresAt}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)

		return nil
	}

	if c.order.Len() >= c.maxSize && c.purge() == 0 {
		return ErrFull
	}

	c.items[key] = c.order.PushFront(e)

	return nil
}

func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// purge drops expired entries and returns how many were removed.
func (c *LRU[T]) purge() int {
	now := c.now()
	removed := 0

	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if !now.Before(elem.Value.(*entry[T]).expiresAt) {
			c.remove(elem)
			removed++
		}

		elem = next
	}

	return removed
}

func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *LRU[T]) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[T]).key)
	c.order.Remove(elem)
}
