package sst

import (
	"fmt"

	"github.com/aalhour/lsmkv/internal/block"
	"github.com/aalhour/lsmkv/internal/cache"
	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/filter"
	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/logging"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
	"github.com/aalhour/lsmkv/internal/vfs"
)

// Builder assembles entries, given in ascending key order, into an SST.
// Keys given to Add must be monotonically non-decreasing; violating that
// produces a table the reader cannot correctly binary-search.
type Builder struct {
	blockSize  int
	bitsPerKey uint

	cur         *block.Builder
	curFirstKey key.Key
	curLastKey  key.Key
	data        []byte
	meta        []BlockMeta
	allKeys     []key.Key
	logger      logging.Logger
}

// NewBuilder creates a Builder targeting blockSize-byte blocks and a bloom
// filter sized at bitsPerKey bits per key.
func NewBuilder(blockSize int, bitsPerKey uint) *Builder {
	return &Builder{
		blockSize:  blockSize,
		bitsPerKey: bitsPerKey,
		cur:        block.NewBuilder(blockSize),
		logger:     logging.OrDefault(nil),
	}
}

// Add appends (k, v) to the table being built, rolling to a new block
// when the current one is full. Always returns true: a fresh block is
// guaranteed to accept any single well-formed entry.
func (b *Builder) Add(k key.Key, v []byte) bool {
	b.allKeys = append(b.allKeys, key.Clone(k))

	if b.cur.Add(k, v) {
		if b.curFirstKey == nil {
			b.curFirstKey = key.Clone(k)
		}
		b.curLastKey = key.Clone(k)
		return true
	}

	b.finishBlock()

	b.cur.Add(k, v)
	b.curFirstKey = key.Clone(k)
	b.curLastKey = key.Clone(k)
	return true
}

// finishBlock encodes the active block builder, appends it to the data
// region, records its BlockMeta, and resets for the next block.
func (b *Builder) finishBlock() {
	if b.cur.Empty() {
		return
	}
	offset := len(b.data)
	blk := b.cur.Build()
	b.data = append(b.data, blk.Encode()...)
	b.meta = append(b.meta, BlockMeta{Offset: uint32(offset), FirstKey: b.curFirstKey, LastKey: b.curLastKey})

	b.logger.Debugf(logging.NSTable+"finished block at offset=%d entries_so_far=%d", offset, len(b.allKeys))

	b.cur = block.NewBuilder(b.blockSize)
	b.curFirstKey = nil
	b.curLastKey = nil
}

// Build force-finishes the last block, writes the trailer (block-meta
// region, bloom filter, and their offsets), fsyncs the file at path, and
// reopens it read-only as the backing store of the returned Table.
func (b *Builder) Build(id uint64, blockCache *cache.BlockCache, path string, fs vfs.FS) (*Table, error) {
	b.finishBlock()

	if len(b.meta) == 0 {
		return nil, fmt.Errorf("%w: cannot build an empty SST", lsmerrors.ErrCorruptSST)
	}

	blockMetaOffset := uint32(len(b.data))
	b.data = append(b.data, encodeBlockMeta(b.meta)...)
	b.data = encoding.AppendFixed32(b.data, blockMetaOffset)

	bloom := filter.BuildFromKeys(b.allKeys, b.bitsPerKey)
	bloomBytes, err := bloom.Encode()
	if err != nil {
		return nil, err
	}
	bloomOffset := uint32(len(b.data))
	b.data = append(b.data, bloomBytes...)
	b.data = encoding.AppendFixed32(b.data, bloomOffset)

	if err := writeFile(fs, path, b.data); err != nil {
		return nil, err
	}

	raf, err := fs.OpenRandomAccess(path)
	if err != nil {
		return nil, err
	}

	b.logger.Infof(logging.NSTable+"built sstable id=%d path=%s blocks=%d entries=%d", id, path, len(b.meta), len(b.allKeys))

	return &Table{
		id:        id,
		file:      raf,
		meta:      b.meta,
		bloom:     bloom,
		firstKey:  b.meta[0].FirstKey,
		lastKey:   b.meta[len(b.meta)-1].LastKey,
		blockMeta: blockMetaOffset,
		cache:     blockCache,
	}, nil
}

func writeFile(fs vfs.FS, path string, data []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
