package backend

import (
	"context"
	"sync"

	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
)

// lruItem is a node of the recency list; head is the most recently used.
type lruItem struct {
	key    string
	result *statistics.Result
	prev   *lruItem
	next   *lruItem
}

// InMemory is a result backend that keeps results in application memory.
// When full, the least recently used result is evicted.
type InMemory struct {
	sync.Mutex // guards items and the recency list

	items    map[string]*lruItem
	head     *lruItem
	tail     *lruItem
	capacity int // 0 means unbounded
}

// NewInMemory creates a new in-memory backend with the given options.
func NewInMemory(opts ...Option[InMemory]) (*InMemory, error) {
	backendInstance := &InMemory{
		items: make(map[string]*lruItem),
	}

	ApplyOptions(backendInstance, opts...)

	if backendInstance.capacity < 0 {
		return nil, sentinel.ErrInvalidCapacity
	}

	return backendInstance, nil
}

// Capacity returns the capacity of the backend.
func (cacheBackend *InMemory) Capacity() int {
	return cacheBackend.capacity
}

// Count returns the number of results in the backend.
func (cacheBackend *InMemory) Count(_ context.Context) int {
	cacheBackend.Lock()
	defer cacheBackend.Unlock()

	return len(cacheBackend.items)
}

// Get retrieves a copy of the result stored under key and marks it as recently used.
func (cacheBackend *InMemory) Get(_ context.Context, key string) (*statistics.Result, bool) {
	cacheBackend.Lock()
	defer cacheBackend.Unlock()

	item, ok := cacheBackend.items[key]
	if !ok {
		return nil, false
	}

	cacheBackend.moveToFront(item)

	return item.result.Clone(), true
}

// Set stores a copy of result under key, evicting the least recently used result if the backend is full.
func (cacheBackend *InMemory) Set(_ context.Context, key string, result *statistics.Result) error {
	if key == "" {
		return sentinel.ErrParamCannotBeEmpty
	}

	cacheBackend.Lock()
	defer cacheBackend.Unlock()

	result = result.Clone()

	if item, ok := cacheBackend.items[key]; ok {
		item.result = result
		cacheBackend.moveToFront(item)

		return nil
	}

	if cacheBackend.capacity > 0 && len(cacheBackend.items) >= cacheBackend.capacity {
		evicted := cacheBackend.tail
		cacheBackend.removeFromList(evicted)
		delete(cacheBackend.items, evicted.key)
	}

	item := &lruItem{key: key, result: result}
	cacheBackend.items[key] = item
	cacheBackend.addToFront(item)

	return nil
}

// Remove removes the results stored under keys.
func (cacheBackend *InMemory) Remove(_ context.Context, keys ...string) error {
	cacheBackend.Lock()
	defer cacheBackend.Unlock()

	for _, key := range keys {
		item, ok := cacheBackend.items[key]
		if !ok {
			continue
		}

		cacheBackend.removeFromList(item)
		delete(cacheBackend.items, key)
	}

	return nil
}

// Clear removes all results.
func (cacheBackend *InMemory) Clear(_ context.Context) error {
	cacheBackend.Lock()
	defer cacheBackend.Unlock()

	cacheBackend.items = make(map[string]*lruItem)
	cacheBackend.head = nil
	cacheBackend.tail = nil

	return nil
}

func (cacheBackend *InMemory) moveToFront(item *lruItem) {
	if item == cacheBackend.head {
		return
	}

	cacheBackend.removeFromList(item)
	cacheBackend.addToFront(item)
}

func (cacheBackend *InMemory) removeFromList(item *lruItem) {
	if item == cacheBackend.head {
		cacheBackend.head = item.next
	} else {
		item.prev.next = item.next
	}

	if item == cacheBackend.tail {
		cacheBackend.tail = item.prev
	} else {
		item.next.prev = item.prev
	}

	item.prev = nil
	item.next = nil
}

func (cacheBackend *InMemory) addToFront(item *lruItem) {
	if cacheBackend.head == nil {
		cacheBackend.head = item
		cacheBackend.tail = item

		return
	}

	item.next = cacheBackend.head
	cacheBackend.head.prev = item
	cacheBackend.head = item
}
