// Package memtable implements the in-memory, concurrently-readable write
// buffer that sits in front of SST flush: a skip-list ordered by key,
// storing the most recent value for each key.
package memtable

import (
	"math/rand"
	"sync/atomic"

	"github.com/aalhour/lsmkv/internal/key"
)

const (
	// maxHeight bounds how tall a node's forward-pointer tower can grow.
	maxHeight = 12

	// branchingFactor: on average 1/branchingFactor of nodes are promoted
	// to the next level.
	branchingFactor = 4
)

// skipNode is one key/value entry in the skip list. next[i] is the
// successor at level i, read and written atomically so that readers never
// observe a torn pointer while a writer links a new node in.
type skipNode struct {
	key   key.Key
	value atomic.Pointer[[]byte]
	next  []atomic.Pointer[skipNode]
}

func newSkipNode(k key.Key, v []byte, height int) *skipNode {
	n := &skipNode{key: k, next: make([]atomic.Pointer[skipNode], height)}
	n.value.Store(&v)
	return n
}

func (n *skipNode) getNext(level int) *skipNode { return n.next[level].Load() }
func (n *skipNode) setNext(level int, next *skipNode) { n.next[level].Store(next) }

// skipList is a lock-free-for-reads, externally-synchronized-for-writes
// ordered map from key to value. Writes must be serialized by the caller
// (Memtable does this with a mutex); concurrent reads and iteration
// require no locking.
type skipList struct {
	head      *skipNode
	curHeight atomic.Int32
	rng       *rand.Rand
}

func newSkipList() *skipList {
	return &skipList{
		head: newSkipNode(nil, nil, maxHeight),
		rng:  rand.New(rand.NewSource(0xDEADBEEF)),
	}
}

func (sl *skipList) height() int { return int(sl.curHeight.Load()) }

// Upsert inserts key with value, or overwrites the value in place if key
// is already present. Requires external synchronization.
func (sl *skipList) Upsert(k key.Key, v []byte) {
	var prev [maxHeight]*skipNode
	x := sl.findGreaterOrEqual(k, prev[:])

	if x != nil && key.Equal(x.key, k) {
		x.value.Store(&v)
		return
	}

	h := sl.randomHeight()
	curH := sl.height()
	if curH == 0 {
		curH = 1
	}
	if h > curH {
		for i := curH; i < h; i++ {
			prev[i] = sl.head
		}
		sl.curHeight.Store(int32(h))
	}

	node := newSkipNode(key.Clone(k), v, h)
	for i := range h {
		node.setNext(i, prev[i].getNext(i))
		prev[i].setNext(i, node)
	}
}

// Get returns the value stored for k and whether k is present.
func (sl *skipList) Get(k key.Key) ([]byte, bool) {
	x := sl.findGreaterOrEqual(k, nil)
	if x == nil || !key.Equal(x.key, k) {
		return nil, false
	}
	return *x.value.Load(), true
}

// findGreaterOrEqual returns the first node with key >= target, filling
// prev[level] with the predecessor at each level when prev is non-nil.
func (sl *skipList) findGreaterOrEqual(target key.Key, prev []*skipNode) *skipNode {
	x := sl.head
	level := sl.height() - 1
	if level < 0 {
		level = 0
	}

	for {
		next := x.getNext(level)
		if next != nil && key.Less(next.key, target) {
			x = next
			continue
		}
		if prev != nil {
			prev[level] = x
		}
		if level == 0 {
			return next
		}
		level--
	}
}

func (sl *skipList) randomHeight() int {
	h := 1
	for h < maxHeight && sl.rng.Uint32()%branchingFactor == 0 {
		h++
	}
	return h
}

// scanIterator walks the skip list from a starting node, giving the
// Memtable its range-scan implementation without exposing node internals.
type scanIterator struct {
	node *skipNode
}

func (sl *skipList) seekToFirst() *scanIterator {
	return &scanIterator{node: sl.head.getNext(0)}
}

func (sl *skipList) seek(target key.Key) *scanIterator {
	return &scanIterator{node: sl.findGreaterOrEqual(target, nil)}
}

func (it *scanIterator) valid() bool { return it.node != nil }
func (it *scanIterator) key() key.Key { return it.node.key }
func (it *scanIterator) value() []byte { return *it.node.value.Load() }
func (it *scanIterator) next() { it.node = it.node.getNext(0) }
