package block

import "github.com/aalhour/lsmkv/internal/key"

// Iterator provides forward iteration and binary-search seek within one
// Block. An empty current key means the iterator is invalid; once
// invalid, it stays invalid until repositioned by Seek or SeekToFirst.
type Iterator struct {
	block    *Block
	firstKey key.Key
	idx      int
	curKey   key.Key
	valBeg   int
	valEnd   int
}

// NewIterator wraps b for iteration without positioning it anywhere.
// Call SeekToFirst or Seek before reading Key/Value.
func NewIterator(b *Block) *Iterator {
	it := &Iterator{block: b}
	if b.NumEntries() > 0 {
		it.firstKey, _, _ = it.decodeAt(0)
	}
	return it
}

// NewIteratorAndSeekToFirst creates an iterator already positioned at the
// block's first entry.
func NewIteratorAndSeekToFirst(b *Block) *Iterator {
	it := NewIterator(b)
	it.SeekToFirst()
	return it
}

// NewIteratorAndSeekToKey creates an iterator positioned at the first
// entry with key >= target.
func NewIteratorAndSeekToKey(b *Block, target key.Key) *Iterator {
	it := NewIterator(b)
	it.Seek(target)
	return it
}

// IsValid reports whether the iterator currently holds an entry.
func (it *Iterator) IsValid() bool {
	return !key.IsEmpty(it.curKey)
}

// Key returns the current entry's reconstructed key. Only valid when
// IsValid() is true.
func (it *Iterator) Key() key.Key {
	return it.curKey
}

// Value returns the current entry's value. Only valid when IsValid() is
// true.
func (it *Iterator) Value() []byte {
	return it.block.data[it.valBeg:it.valEnd]
}

// SeekToFirst positions the iterator at the block's first entry.
func (it *Iterator) SeekToFirst() {
	if it.block.NumEntries() == 0 {
		it.curKey = nil
		return
	}
	it.idx = 0
	it.load(0)
}

// Next advances to the next entry. When the index moves past the last
// entry, the iterator becomes invalid.
func (it *Iterator) Next() {
	if !it.IsValid() {
		return
	}
	if it.idx+1 < it.block.NumEntries() {
		it.idx++
		it.load(it.idx)
	} else {
		it.curKey = nil
	}
}

// Seek positions the iterator at the first entry with key >= target via
// binary search over the offset table. If target exceeds every key in
// the block, the iterator becomes invalid.
func (it *Iterator) Seek(target key.Key) {
	n := it.block.NumEntries()
	begin, end := 0, n
	for begin < end {
		mid := (begin + end) / 2
		midKey, _, _ := it.decodeAt(mid)
		switch {
		case key.Equal(midKey, target):
			it.idx = mid
			it.load(mid)
			return
		case key.Less(midKey, target):
			begin = mid + 1
		default:
			end = mid
		}
	}
	if begin >= n {
		it.curKey = nil
		return
	}
	it.idx = begin
	it.load(begin)
}

func (it *Iterator) load(idx int) {
	k, valBeg, valEnd := it.decodeAt(idx)
	it.curKey = k
	it.valBeg = valBeg
	it.valEnd = valEnd
}

// decodeAt reconstructs the key and value byte range of entry idx without
// mutating iterator state. Decoding any index is O(1) relative to the
// entries preceding it, because non-first entries are compressed against
// the block's first key rather than the previous entry.
func (it *Iterator) decodeAt(idx int) (key.Key, int, int) {
	return decodeEntry(it.block, it.firstKey, idx)
}
