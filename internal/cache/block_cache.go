// Package cache provides a process-wide LRU cache mapping (sst ID, block
// index) to a decoded block, with single-flight fill so concurrent misses
// for the same block only cost one disk read.
package cache

import (
	"container/list"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aalhour/lsmkv/internal/block"
	"github.com/aalhour/lsmkv/internal/logging"
)

// Key identifies one block within one SST.
type Key struct {
	SSTID    uint64
	BlockIdx uint32
}

// BlockCache is a thread-safe, capacity-bounded LRU cache of decoded
// blocks. Charge is the decoded block's byte size; eviction runs whenever
// an insert would push total usage over capacity.
type BlockCache struct {
	mu       sync.Mutex
	capacity uint64
	usage    uint64
	table    map[Key]*list.Element
	lru      *list.List

	fill singleflight.Group

	logger logging.Logger
}

type cacheEntry struct {
	key    Key
	value  *block.Block
	charge uint64
}

// NewBlockCache creates a cache with the given capacity in bytes.
func NewBlockCache(capacity uint64) *BlockCache {
	return &BlockCache{
		capacity: capacity,
		table:    make(map[Key]*list.Element),
		lru:      list.New(),
		logger:   logging.OrDefault(nil),
	}
}

// Get returns the cached block for key, or (nil, false) on a miss.
func (c *BlockCache) Get(key Key) (*block.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.table[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Insert adds or replaces the cached block for key, evicting the least
// recently used entries as needed to respect capacity.
func (c *BlockCache) Insert(key Key, blk *block.Block, charge uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.table[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.usage -= entry.charge
		entry.value = blk
		entry.charge = charge
		c.usage += charge
		c.lru.MoveToFront(elem)
		return
	}

	for c.usage+charge > c.capacity && c.lru.Len() > 0 {
		c.evictOldest()
	}

	entry := &cacheEntry{key: key, value: blk, charge: charge}
	elem := c.lru.PushFront(entry)
	c.table[key] = elem
	c.usage += charge
}

// TryGetWith returns the cached block for key, calling loader to produce
// it on a miss. Concurrent misses for the same key collapse into one
// loader call via single-flight; all callers receive that call's result.
func (c *BlockCache) TryGetWith(key Key, loader func() (*block.Block, error)) (*block.Block, error) {
	if blk, ok := c.Get(key); ok {
		return blk, nil
	}

	shared, err, _ := c.fill.Do(fmt.Sprintf("%d:%d", key.SSTID, key.BlockIdx), func() (any, error) {
		if blk, ok := c.Get(key); ok {
			return blk, nil
		}
		blk, err := loader()
		if err != nil {
			return nil, err
		}
		c.Insert(key, blk, uint64(len(blk.Data())))
		return blk, nil
	})
	if err != nil {
		return nil, err
	}
	return shared.(*block.Block), nil
}

// Erase removes key from the cache, if present.
func (c *BlockCache) Erase(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.table[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.usage -= entry.charge
		c.lru.Remove(elem)
		delete(c.table, key)
	}
}

// Usage returns the current total charge of cached entries.
func (c *BlockCache) Usage() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// evictOldest removes the least recently used entry. Must be called with
// mu held.
func (c *BlockCache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.table, entry.key)
	c.usage -= entry.charge

	c.logger.Debugf(logging.NSCache+"evicted sst=%d block=%d charge=%d usage=%d", entry.key.SSTID, entry.key.BlockIdx, entry.charge, c.usage)
}
