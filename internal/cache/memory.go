package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/iwvelando/amortize/pkg/amortization"
)

type memoryEntry struct {
	key     string
	result  amortization.Result
	expires time.Time // zero when the entry never expires
}

// Memory is an in-process LRU cache safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
	now        func() time.Time
}

// NewMemory returns a Memory cache holding at most maxEntries results, each for
// at most ttl. A ttl of 0 disables expiry.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns the stored result or ErrMiss. Rows are copied so callers cannot
// modify the cached schedule.
func (m *Memory) Get(_ context.Context, key string) (amortization.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return amortization.Result{}, ErrMiss
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		m.remove(el)
		return amortization.Result{}, ErrMiss
	}
	m.order.MoveToFront(el)
	return clone(entry.result), nil
}

// Set stores result under key, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key string, result amortization.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expires time.Time
	if m.ttl > 0 {
		expires = m.now().Add(m.ttl)
	}

	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.result = clone(result)
		entry.expires = expires
		m.order.MoveToFront(el)
		return nil
	}

	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, result: clone(result), expires: expires})
	for m.order.Len() > m.maxEntries {
		m.remove(m.order.Back())
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*memoryEntry).key)
}

func clone(result amortization.Result) amortization.Result {
	if result.Rows != nil {
		result.Rows = append([]amortization.Row(nil), result.Rows...)
	}
	return result
}
