package iter

import (
	"container/heap"

	"github.com/aalhour/lsmkv/internal/key"
)

// heapItem pairs a child iterator with its positional priority (index 0
// is highest priority). The heap orders by (key_asc, index_asc): the
// smallest key wins, and on a tie the lower index — the higher-priority
// source — wins.
type heapItem struct {
	index int
	iter  Iterator
}

type itemHeap []*heapItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	c := key.Compare(h[i].iter.Key(), h[j].iter.Key())
	if c != 0 {
		return c < 0
	}
	return h[i].index < h[j].index
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x any)   { *h = append(*h, x.(*heapItem)) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeIterator is a k-way merge over child iterators carrying positional
// priority: when two children agree on a key, the lowest-index child
// shadows the rest and the others are silently advanced past it.
type MergeIterator struct {
	heap    itemHeap
	current *heapItem
	err     error
}

// NewMergeIterator builds a merge over children, in priority order
// (children[0] is highest priority). Invalid children are dropped
// immediately; they never influence iteration.
func NewMergeIterator(children []Iterator) *MergeIterator {
	m := &MergeIterator{}
	for i, c := range children {
		if c.IsValid() {
			m.heap = append(m.heap, &heapItem{index: i, iter: c})
		}
	}
	heap.Init(&m.heap)
	if m.heap.Len() > 0 {
		m.current = heap.Pop(&m.heap).(*heapItem)
	}
	return m
}

// IsValid reports whether the merge currently holds an entry.
func (m *MergeIterator) IsValid() bool {
	return m.err == nil && m.current != nil
}

// Key returns the winning child's current key.
func (m *MergeIterator) Key() key.Key { return m.current.iter.Key() }

// Value returns the winning child's current value.
func (m *MergeIterator) Value() []byte { return m.current.iter.Value() }

// Next consumes duplicates of the winning key across all children, then
// advances the winner and re-establishes the new winner from the heap.
func (m *MergeIterator) Next() error {
	if m.err != nil || m.current == nil {
		return m.err
	}

	winningKey := key.Clone(m.current.iter.Key())

	for m.heap.Len() > 0 && key.Equal(m.heap[0].iter.Key(), winningKey) {
		item := m.heap[0]
		if err := item.iter.Next(); err != nil {
			m.err = err
			return err
		}
		if item.iter.IsValid() {
			heap.Fix(&m.heap, 0)
		} else {
			heap.Pop(&m.heap)
		}
	}

	if err := m.current.iter.Next(); err != nil {
		m.err = err
		return err
	}

	if m.current.iter.IsValid() {
		if m.heap.Len() > 0 && topBeats(m.heap[0], m.current) {
			heap.Push(&m.heap, m.current)
			m.current = heap.Pop(&m.heap).(*heapItem)
		}
		return nil
	}

	if m.heap.Len() > 0 {
		m.current = heap.Pop(&m.heap).(*heapItem)
	} else {
		m.current = nil
	}
	return nil
}

// topBeats reports whether a should win over b by (key_asc, index_asc).
func topBeats(a, b *heapItem) bool {
	c := key.Compare(a.iter.Key(), b.iter.Key())
	if c != 0 {
		return c < 0
	}
	return a.index < b.index
}

// NumActiveIterators sums the active children: the current winner plus
// everything still parked in the heap.
func (m *MergeIterator) NumActiveIterators() int {
	n := m.heap.Len()
	if m.current != nil {
		n++
	}
	return n
}
