// Package block implements the smallest unit of read and cache residency
// in the LSM tree: a sorted run of key/value entries sharing a size
// budget, encoded with the first entry's key stored in full and every
// later entry's key prefix-compressed against that first key.
package block

import (
	"fmt"

	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/logging"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
)

// minEncodedLen is the smallest a valid encoded block can be: a 2-byte
// offset table entry plus the trailing 2-byte entry count.
const minEncodedLen = 4

// Block holds the decoded entries-region bytes and the offset table
// pointing at each entry's start within that region. It is immutable once
// built or decoded and may be shared by multiple iterators concurrently.
type Block struct {
	data    []byte
	offsets []uint16
}

// New wraps raw entries-region bytes and an offset table into a Block.
// Used by Builder.Build; callers outside this package should use Decode.
func New(data []byte, offsets []uint16) *Block {
	return &Block{data: data, offsets: offsets}
}

// NumEntries returns the number of entries in the block.
func (b *Block) NumEntries() int {
	return len(b.offsets)
}

// OffsetAt returns the byte offset, within the entries region, of entry i.
func (b *Block) OffsetAt(i int) uint16 {
	return b.offsets[i]
}

// Data returns the raw entries-region bytes. Callers must not retain slices
// into it past the Block's lifetime assumptions (the Block itself is
// immutable, so this is safe to read concurrently).
func (b *Block) Data() []byte {
	return b.data
}

// Encode serializes the block to its on-disk layout:
// entries_region || offsets_region (u16 each) || num_entries (u16).
func (b *Block) Encode() []byte {
	out := make([]byte, 0, len(b.data)+len(b.offsets)*2+2)
	out = append(out, b.data...)
	for _, off := range b.offsets {
		out = encoding.AppendFixed16(out, off)
	}
	out = encoding.AppendFixed16(out, uint16(len(b.offsets)))
	return out
}

// Decode parses a block from its encoded form. It returns ErrCorruptBlock
// when the slice is too short or cannot hold the offset table its entry
// count declares; the offsets and the entries they point at are not
// validated here.
func Decode(data []byte) (*Block, error) {
	if len(data) < minEncodedLen {
		logging.OrDefault(nil).Warnf(logging.NSBlock+"decode failed: block too short (%d bytes)", len(data))
		return nil, fmt.Errorf("%w: encoded block too short (%d bytes)", lsmerrors.ErrCorruptBlock, len(data))
	}

	countOff := len(data) - 2
	count := int(encoding.DecodeFixed16(data[countOff:]))

	offsetsLen := count * 2
	offsetsStart := countOff - offsetsLen
	if offsetsStart < 0 {
		logging.OrDefault(nil).Warnf(logging.NSBlock+"decode failed: offset table overruns buffer (count=%d)", count)
		return nil, fmt.Errorf("%w: offset table overruns buffer (count=%d)", lsmerrors.ErrCorruptBlock, count)
	}

	offsets := make([]uint16, count)
	for i := 0; i < count; i++ {
		offsets[i] = encoding.DecodeFixed16(data[offsetsStart+i*2:])
	}

	entries := make([]byte, offsetsStart)
	copy(entries, data[:offsetsStart])

	return &Block{data: entries, offsets: offsets}, nil
}
