package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// InMemory memoizes computed values by key, up to max entries. Concurrent
// callers asking for the same key share one computation. Errors and panics
// are returned to every waiter and never cached.
type InMemory[V any] struct {
	mu       sync.Mutex
	max      int
	items    map[string]V
	inflight map[string]*call[V]
}

type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func NewInMemory[V any](max int) *InMemory[V] {
	if max < 0 {
		max = 0
	}
	return &InMemory[V]{
		max:      max,
		items:    make(map[string]V, max),
		inflight: make(map[string]*call[V]),
	}
}

func (c *InMemory[V]) GetOrCompute(key string, fn func() (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.items[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.val, cl.err
	}
	cl := &call[V]{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	c.run(cl, fn)

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil && len(c.items) < c.max {
		c.items[key] = cl.val
	}
	c.mu.Unlock()
	close(cl.done)

	return cl.val, cl.err
}

func (c *InMemory[V]) run(cl *call[V], fn func() (V, error)) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			cl.val, cl.err = zero, fmt.Errorf("cache: compute panicked: %v", r)
		}
	}()
	cl.val, cl.err = fn()
}

func (c *InMemory[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Key digests its parts into a fixed-size cache key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
