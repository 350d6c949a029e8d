// Package sst implements the sorted-string table: an immutable on-disk
// run of blocks with a block-meta index and a bloom filter summary,
// assembled by Builder and read back by Open/Table.
package sst

import (
	"fmt"

	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
)

// BlockMeta describes one block's location and key range within an SST.
type BlockMeta struct {
	Offset   uint32
	FirstKey key.Key
	LastKey  key.Key
}

// encodeBlockMeta concatenates offset:u32 || first_key_len:u16 ||
// first_key || last_key_len:u16 || last_key for each entry.
func encodeBlockMeta(meta []BlockMeta) []byte {
	var out []byte
	for _, m := range meta {
		out = encoding.AppendFixed32(out, m.Offset)
		out = encoding.AppendFixed16(out, uint16(len(m.FirstKey)))
		out = append(out, m.FirstKey...)
		out = encoding.AppendFixed16(out, uint16(len(m.LastKey)))
		out = append(out, m.LastKey...)
	}
	return out
}

// decodeBlockMeta parses the concatenated block-meta region produced by
// encodeBlockMeta.
func decodeBlockMeta(data []byte) ([]BlockMeta, error) {
	var metas []BlockMeta
	p := 0
	for p < len(data) {
		if p+4+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated block meta entry", lsmerrors.ErrCorruptSST)
		}
		offset := encoding.DecodeFixed32(data[p:])
		p += 4
		firstLen := int(encoding.DecodeFixed16(data[p:]))
		p += 2
		if p+firstLen+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated first_key", lsmerrors.ErrCorruptSST)
		}
		firstKey := key.Clone(key.Key(data[p : p+firstLen]))
		p += firstLen
		lastLen := int(encoding.DecodeFixed16(data[p:]))
		p += 2
		if p+lastLen > len(data) {
			return nil, fmt.Errorf("%w: truncated last_key", lsmerrors.ErrCorruptSST)
		}
		lastKey := key.Clone(key.Key(data[p : p+lastLen]))
		p += lastLen

		metas = append(metas, BlockMeta{Offset: offset, FirstKey: firstKey, LastKey: lastKey})
	}
	return metas, nil
}
