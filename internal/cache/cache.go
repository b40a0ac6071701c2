// Package cache holds per-document retrievers so repeated questions about
// the same document skip re-extraction and re-indexing.
package cache

import (
	"container/list"
	"sync"

	"github.com/hyunwoo-dev/paperlens/internal/vectordb"
)

// DefaultMaxEntries bounds the cache when no explicit capacity is given.
const DefaultMaxEntries = 32

type entry struct {
	docID     string
	retriever vectordb.Retriever
}

// RetrieverCache maps document IDs to ready retrievers. Entries are evicted
// least-recently-used once the capacity is reached. Safe for concurrent use.
type RetrieverCache struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	items      map[string]*list.Element
}

// New creates a cache bounded to maxEntries. A non-positive capacity falls
// back to DefaultMaxEntries.
func New(maxEntries int) *RetrieverCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &RetrieverCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Set stores the retriever for a document, replacing any previous entry.
func (c *RetrieverCache) Set(docID string, r vectordb.Retriever) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[docID]; ok {
		el.Value.(*entry).retriever = r
		c.order.MoveToFront(el)
		return
	}
	c.items[docID] = c.order.PushFront(&entry{docID: docID, retriever: r})
	if c.order.Len() > c.maxEntries {
		c.evictOldest()
	}
}

// Get returns the cached retriever and whether it was present. A hit marks
// the entry as recently used.
func (c *RetrieverCache) Get(docID string) (vectordb.Retriever, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[docID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).retriever, true
}

// Has reports whether a retriever is cached for the document without
// touching its recency.
func (c *RetrieverCache) Has(docID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[docID]
	return ok
}

// Clear drops the entry for a document, if any. Called when a document is
// deleted so a stale retriever cannot answer for it.
func (c *RetrieverCache) Clear(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[docID]; ok {
		c.order.Remove(el)
		delete(c.items, docID)
	}
}

// Len returns the number of cached retrievers.
func (c *RetrieverCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *RetrieverCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).docID)
}
