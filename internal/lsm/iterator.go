// Package lsm assembles the memtable and SST merge stacks into the one
// sorted stream a read path consumes: duplicates resolved by source
// priority, tombstones elided, and an optional upper bound applied.
package lsm

import (
	"github.com/aalhour/lsmkv/internal/iter"
	"github.com/aalhour/lsmkv/internal/key"
)

// BoundKind describes how an Iterator's upper bound constrains keys.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound pairs a BoundKind with the key it bounds (ignored when
// Unbounded).
type Bound struct {
	Kind BoundKind
	Key  key.Key
}

// Iterator is the top-level LSM read iterator: memtables merged over
// SSTs (memtables always shadow SSTs on an equal key, since they hold
// the most recently written data), tombstones skipped, and clipped to
// an upper bound captured at construction.
type Iterator struct {
	inner *iter.FusedIterator
	upper Bound
	done  bool
}

// New wraps memtables (highest priority first) and ssts (highest
// priority first) into one sorted, tombstone-free stream bounded above
// by upper, and positions it at the first live entry.
func New(memtables, ssts []iter.Iterator, upper Bound) (*Iterator, error) {
	memMerge := iter.NewMergeIterator(memtables)
	sstMerge := iter.NewMergeIterator(ssts)
	inner := iter.NewTwoMergeIterator[*iter.MergeIterator, *iter.MergeIterator](memMerge, sstMerge)
	fused := iter.NewFusedIterator(inner)

	it := &Iterator{inner: fused, upper: upper}
	if err := it.skipDeletedAndOutOfBounds(); err != nil {
		return nil, err
	}
	return it, nil
}

// withinBound reports whether k satisfies the iterator's upper bound.
func (it *Iterator) withinBound(k key.Key) bool {
	switch it.upper.Kind {
	case Included:
		return !key.Less(it.upper.Key, k)
	case Excluded:
		return key.Less(k, it.upper.Key)
	default:
		return true
	}
}

// skipDeletedAndOutOfBounds advances past tombstones (empty-value
// entries), after first clipping to the upper bound: a tombstone beyond
// the bound simply ends the iterator rather than being skipped past.
func (it *Iterator) skipDeletedAndOutOfBounds() error {
	for it.inner.IsValid() {
		if !it.withinBound(it.inner.Key()) {
			it.invalidate()
			return nil
		}
		if len(it.inner.Value()) > 0 {
			return nil
		}
		if err := it.inner.Next(); err != nil {
			return err
		}
	}
	return nil
}

// invalidate forces the iterator into the invalid state without
// depending on the inner stack reaching natural exhaustion.
func (it *Iterator) invalidate() {
	it.done = true
}

// IsValid reports whether the iterator currently holds a live entry.
func (it *Iterator) IsValid() bool {
	return !it.done && it.inner.IsValid()
}

// Key returns the current entry's raw key bytes.
func (it *Iterator) Key() key.Key { return it.inner.Key() }

// Value returns the current entry's raw value bytes.
func (it *Iterator) Value() []byte { return it.inner.Value() }

// Next advances past the current entry to the next live, in-bound entry.
func (it *Iterator) Next() error {
	if !it.IsValid() {
		return nil
	}
	if err := it.inner.Next(); err != nil {
		return err
	}
	return it.skipDeletedAndOutOfBounds()
}

// NumActiveIterators reports the number of live leaf iterators backing
// this scan.
func (it *Iterator) NumActiveIterators() int {
	return it.inner.NumActiveIterators()
}
