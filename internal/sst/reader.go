package sst

import (
	"fmt"
	"sort"

	"github.com/aalhour/lsmkv/internal/block"
	"github.com/aalhour/lsmkv/internal/cache"
	"github.com/aalhour/lsmkv/internal/encoding"
	"github.com/aalhour/lsmkv/internal/filter"
	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/logging"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
	"github.com/aalhour/lsmkv/internal/vfs"
)

// trailerMinLen is the smallest a valid SST trailer region can be: two
// u32 offsets plus a minimum 5-byte encoded bloom filter.
const trailerMinLen = 4 + 4 + 5

// Table is an immutable SST: a shared, read-only file handle plus the
// decoded block-meta index and bloom filter. Safe for concurrent use.
type Table struct {
	id        uint64
	file      vfs.RandomAccessFile
	meta      []BlockMeta
	bloom     *filter.Bloom
	firstKey  key.Key
	lastKey   key.Key
	blockMeta uint32
	cache     *cache.BlockCache
}

// Open reads the whole file, parses the trailer from the tail, and
// decodes the bloom filter and block-meta index.
func Open(id uint64, path string, blockCache *cache.BlockCache, fs vfs.FS) (*Table, error) {
	raf, err := fs.OpenRandomAccess(path)
	if err != nil {
		return nil, err
	}

	size := raf.Size()
	if size < trailerMinLen {
		raf.Close()
		return nil, fmt.Errorf("%w: file too small to be an SST (%d bytes)", lsmerrors.ErrCorruptSST, size)
	}

	buf := make([]byte, size)
	if _, err := raf.ReadAt(buf, 0); err != nil {
		raf.Close()
		return nil, err
	}

	bloomOffset := encoding.DecodeFixed32(buf[size-4:])
	if int64(bloomOffset)+4 > size {
		raf.Close()
		return nil, fmt.Errorf("%w: bloom offset out of range", lsmerrors.ErrCorruptSST)
	}
	bloomBytes := buf[bloomOffset : size-4]
	bloom, err := filter.Decode(bloomBytes)
	if err != nil {
		raf.Close()
		return nil, err
	}

	if bloomOffset < 4 {
		raf.Close()
		return nil, fmt.Errorf("%w: missing block-meta offset", lsmerrors.ErrCorruptSST)
	}
	blockMetaOffset := encoding.DecodeFixed32(buf[bloomOffset-4 : bloomOffset])
	if blockMetaOffset > bloomOffset-4 {
		raf.Close()
		return nil, fmt.Errorf("%w: block-meta offset out of range", lsmerrors.ErrCorruptSST)
	}
	meta, err := decodeBlockMeta(buf[blockMetaOffset : bloomOffset-4])
	if err != nil {
		raf.Close()
		return nil, err
	}
	if len(meta) == 0 {
		raf.Close()
		return nil, fmt.Errorf("%w: SST has no blocks", lsmerrors.ErrCorruptSST)
	}

	logging.OrDefault(nil).Infof(logging.NSTable+"opened sstable id=%d path=%s blocks=%d", id, path, len(meta))

	return &Table{
		id:        id,
		file:      raf,
		meta:      meta,
		bloom:     bloom,
		firstKey:  meta[0].FirstKey,
		lastKey:   meta[len(meta)-1].LastKey,
		blockMeta: blockMetaOffset,
		cache:     blockCache,
	}, nil
}

// ID returns the table's identifier, used as the block cache's file key.
func (t *Table) ID() uint64 { return t.id }

// FirstKey and LastKey give the table's key range.
func (t *Table) FirstKey() key.Key { return t.firstKey }
func (t *Table) LastKey() key.Key  { return t.lastKey }

// NumBlocks returns the number of blocks in the table.
func (t *Table) NumBlocks() int { return len(t.meta) }

// MayContain reports whether k might be present, per the table's bloom
// filter. False means k is definitely absent.
func (t *Table) MayContain(k key.Key) bool {
	return t.bloom.MayContain(k)
}

// ReadBlock reads and decodes block i directly from the file, bypassing
// the cache.
func (t *Table) ReadBlock(i int) (*block.Block, error) {
	if i < 0 || i >= len(t.meta) {
		return nil, fmt.Errorf("%w: block index %d out of range", lsmerrors.ErrCorruptSST, i)
	}
	begin := int64(t.meta[i].Offset)
	var end int64
	if i+1 < len(t.meta) {
		end = int64(t.meta[i+1].Offset)
	} else {
		end = int64(t.blockMeta)
	}

	buf := make([]byte, end-begin)
	if _, err := t.file.ReadAt(buf, begin); err != nil {
		return nil, err
	}
	return block.Decode(buf)
}

// ReadBlockCached reads block i through the shared block cache, with
// single-flight semantics on a miss.
func (t *Table) ReadBlockCached(i int) (*block.Block, error) {
	if t.cache == nil {
		return t.ReadBlock(i)
	}
	return t.cache.TryGetWith(cache.Key{SSTID: t.id, BlockIdx: uint32(i)}, func() (*block.Block, error) {
		return t.ReadBlock(i)
	})
}

// FindBlockIdx returns the index of the unique block whose [first_key,
// last_key] covers target. If no block covers it, returns the index of
// the first block whose first_key > target. If target exceeds every
// block, returns NumBlocks().
func (t *Table) FindBlockIdx(target key.Key) int {
	return sort.Search(len(t.meta), func(i int) bool {
		return key.Compare(t.meta[i].LastKey, target) >= 0
	})
}

// Close releases the underlying file handle.
func (t *Table) Close() error {
	return t.file.Close()
}
