package block

import (
	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/key"
)

// firstEntryOverhead is the fixed byte cost of a block's first entry's
// key/value length fields: key_len:u16 + value_len:u16.
const firstEntryOverhead = 4

// restEntryOverhead is the fixed byte cost of a non-first entry's length
// fields: total_key_field_len:u16 + overlap_len:u16 + rest_len:u16 + value_len:u16.
const restEntryOverhead = 8

// offsetEntryOverhead is the byte cost of the offset table slot an entry
// occupies.
const offsetEntryOverhead = 2

// Builder accumulates sorted entries into a Block, rolling the entry into
// the encoded entries region as it goes and prefix-compressing every
// entry after the first against the block's first key.
type Builder struct {
	data      []byte
	offsets   []uint16
	blockSize int
	firstKey  key.Key
}

// NewBuilder creates a Builder targeting the given block size budget.
func NewBuilder(blockSize int) *Builder {
	return &Builder{blockSize: blockSize}
}

// Empty reports whether any entry has been added yet.
func (b *Builder) Empty() bool {
	return len(b.offsets) == 0
}

// CurrentSizeEstimate returns the encoded size the block would have if
// finished right now.
func (b *Builder) CurrentSizeEstimate() int {
	return len(b.data) + len(b.offsets)*2 + 2
}

// FirstKey returns the first key added to this builder, or nil if empty.
func (b *Builder) FirstKey() key.Key {
	return b.firstKey
}

// Add appends (k, v) to the block being built. It returns false, without
// modifying builder state, if appending would push the encoded size over
// the block-size budget — unless the builder is still empty, in which
// case the first entry is always accepted to guarantee forward progress.
func (b *Builder) Add(k key.Key, v []byte) bool {
	var entryCost int
	var overlap int
	if b.Empty() {
		entryCost = firstEntryOverhead + len(k) + len(v)
	} else {
		overlap = key.CommonPrefixLen(b.firstKey, k)
		entryCost = restEntryOverhead + (len(k) - overlap) + len(v)
	}

	projected := len(b.offsets)*offsetEntryOverhead + len(b.data) + offsetEntryOverhead + entryCost
	if projected > b.blockSize && !b.Empty() {
		return false
	}

	b.offsets = append(b.offsets, uint16(len(b.data)))

	if b.firstKey == nil {
		b.data = encoding.AppendFixed16(b.data, uint16(len(k)))
		b.data = append(b.data, k...)
		b.data = encoding.AppendFixed16(b.data, uint16(len(v)))
		b.data = append(b.data, v...)
		b.firstKey = key.Clone(k)
		return true
	}

	rest := k[overlap:]
	totalKeyFieldLen := uint16(4 + len(rest))
	b.data = encoding.AppendFixed16(b.data, totalKeyFieldLen)
	b.data = encoding.AppendFixed16(b.data, uint16(overlap))
	b.data = encoding.AppendFixed16(b.data, uint16(len(rest)))
	b.data = append(b.data, rest...)
	b.data = encoding.AppendFixed16(b.data, uint16(len(v)))
	b.data = append(b.data, v...)
	return true
}

// Build consumes the builder and returns the finished Block. Calling Add
// after Build is not supported; construct a fresh Builder for the next
// block instead.
func (b *Builder) Build() *Block {
	return New(b.data, b.offsets)
}
