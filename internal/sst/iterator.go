package sst

import (
	"github.com/aalhour/lsmkv/internal/block"
	"github.com/aalhour/lsmkv/internal/key"
)

// Iterator is a forward iterator over one Table's entries, reading
// blocks through the cache as it advances.
type Iterator struct {
	table  *Table
	blkIt  *block.Iterator
	blkIdx int
}

// NewIterator wraps table for iteration without positioning it.
func NewIterator(table *Table) *Iterator {
	return &Iterator{table: table}
}

// SeekToFirst loads block 0 and positions at its first entry.
func (it *Iterator) SeekToFirst() error {
	blk, err := it.table.ReadBlockCached(0)
	if err != nil {
		return err
	}
	it.blkIdx = 0
	it.blkIt = block.NewIteratorAndSeekToFirst(blk)
	return nil
}

// Seek positions at the first entry with key >= target. If target
// exceeds every key in the table, the iterator becomes invalid.
func (it *Iterator) Seek(target key.Key) error {
	idx := it.table.FindBlockIdx(target)
	if idx >= it.table.NumBlocks() {
		it.blkIt = nil
		return nil
	}

	blk, err := it.table.ReadBlockCached(idx)
	if err != nil {
		return err
	}
	it.blkIdx = idx
	it.blkIt = block.NewIteratorAndSeekToKey(blk, target)

	if !it.blkIt.IsValid() {
		return it.advanceToNextBlock()
	}
	return nil
}

// Next advances to the next entry, crossing into the next block when the
// current one is exhausted.
func (it *Iterator) Next() error {
	if it.blkIt == nil {
		return nil
	}
	it.blkIt.Next()
	if !it.blkIt.IsValid() {
		return it.advanceToNextBlock()
	}
	return nil
}

func (it *Iterator) advanceToNextBlock() error {
	for {
		it.blkIdx++
		if it.blkIdx >= it.table.NumBlocks() {
			it.blkIt = nil
			return nil
		}
		blk, err := it.table.ReadBlockCached(it.blkIdx)
		if err != nil {
			return err
		}
		it.blkIt = block.NewIteratorAndSeekToFirst(blk)
		if it.blkIt.IsValid() {
			return nil
		}
	}
}

// IsValid reports whether the iterator currently holds an entry.
func (it *Iterator) IsValid() bool {
	return it.blkIt != nil && it.blkIt.IsValid()
}

// Key returns the current entry's key. Only valid when IsValid is true.
func (it *Iterator) Key() key.Key { return it.blkIt.Key() }

// Value returns the current entry's value. Only valid when IsValid is true.
func (it *Iterator) Value() []byte { return it.blkIt.Value() }

// NumActiveIterators is always 1: an SST iterator owns exactly one block
// iterator at a time.
func (it *Iterator) NumActiveIterators() int { return 1 }
