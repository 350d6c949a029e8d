package block

import (
	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/key"
)

// decodeEntry reconstructs the key and the [begin, end) value byte range
// of entry idx in b. firstKey must be the block's first key already
// decoded (ignored when idx == 0, since the first entry stores its key in
// full and has no overlap to resolve).
func decodeEntry(b *Block, firstKey key.Key, idx int) (key.Key, int, int) {
	data := b.Data()
	offset := int(b.OffsetAt(idx))

	if idx == 0 {
		keyLen := int(encoding.DecodeFixed16(data[offset:]))
		k := data[offset+2 : offset+2+keyLen]
		valLenOff := offset + 2 + keyLen
		valLen := int(encoding.DecodeFixed16(data[valLenOff:]))
		valBeg := valLenOff + 2
		return key.Key(k), valBeg, valBeg + valLen
	}

	p := offset + 2 // skip total_key_field_len; redundant with overlap_len+rest_len
	overlap := int(encoding.DecodeFixed16(data[p:]))
	p += 2
	restLen := int(encoding.DecodeFixed16(data[p:]))
	p += 2
	rest := data[p : p+restLen]
	p += restLen
	valLen := int(encoding.DecodeFixed16(data[p:]))
	p += 2
	valBeg := p

	k := make(key.Key, overlap+restLen)
	copy(k, firstKey[:overlap])
	copy(k[overlap:], rest)

	return k, valBeg, valBeg + valLen
}
