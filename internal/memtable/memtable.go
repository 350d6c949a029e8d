package memtable

import (
	"sync"
	"sync/atomic"

	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/logging"
)

// SSTBuilder is the subset of the SST builder's contract the memtable
// needs in order to flush itself: a sorted stream of Add calls.
type SSTBuilder interface {
	Add(k key.Key, v []byte) bool
}

// WAL is the write-ahead log collaborator. Its format is not specified
// here; the memtable only needs a durability barrier.
type WAL interface {
	Sync() error
}

// MemTable is the concurrent, ordered write buffer in front of SST flush.
// Multiple concurrent Put and Scan calls are safe; a Scan observes a
// snapshot at least as recent as the moment it was created, with no torn
// reads, because the underlying skip list never mutates a node's key once
// linked and value updates are applied via atomic pointer swap.
type MemTable struct {
	id   uint64
	wal  WAL
	size atomic.Uint64

	mu   sync.Mutex
	list *skipList
}

// New creates an empty memtable identified by id. wal may be nil, meaning
// this memtable has no write-ahead log.
func New(id uint64, wal WAL) *MemTable {
	return &MemTable{id: id, wal: wal, list: newSkipList()}
}

// ID returns the memtable's identifier.
func (m *MemTable) ID() uint64 { return m.id }

// ApproximateSize returns the monotonically non-decreasing byte-size
// estimate accumulated across all Put calls.
func (m *MemTable) ApproximateSize() uint64 { return m.size.Load() }

// Put inserts or overwrites the value for key. An empty value represents
// a deletion tombstone; callers wishing to delete a key should Put it
// with a zero-length value.
func (m *MemTable) Put(k key.Key, v []byte) {
	m.mu.Lock()
	m.list.Upsert(k, v)
	m.mu.Unlock()

	m.size.Add(uint64(len(k) + len(v)))
}

// Get performs a point lookup.
func (m *MemTable) Get(k key.Key) ([]byte, bool) {
	return m.list.Get(k)
}

// BoundKind describes how one side of a scan range constrains keys.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound pairs a BoundKind with the key it bounds (ignored when Unbounded).
type Bound struct {
	Kind BoundKind
	Key  key.Key
}

// Scan returns an iterator over [lower, upper) per each bound's kind.
// The returned iterator needs no external reference to the memtable to
// stay valid: it only holds skip-list node pointers, which are never
// freed while reachable.
func (m *MemTable) Scan(lower, upper Bound) *Iterator {
	var cursor *scanIterator
	switch lower.Kind {
	case Unbounded:
		cursor = m.list.seekToFirst()
	case Included:
		cursor = m.list.seek(lower.Key)
	case Excluded:
		cursor = m.list.seek(lower.Key)
		if cursor.valid() && key.Equal(cursor.key(), lower.Key) {
			cursor.next()
		}
	}
	return &Iterator{cursor: cursor, upper: upper}
}

// Flush replays every entry in ascending key order into builder.
func (m *MemTable) Flush(builder SSTBuilder) {
	it := m.Scan(Bound{Kind: Unbounded}, Bound{Kind: Unbounded})
	n := 0
	for it.IsValid() {
		builder.Add(it.Key(), it.Value())
		it.Next()
		n++
	}
	logging.OrDefault(nil).Infof(logging.NSMemtable+"flushed memtable id=%d entries=%d size=%d", m.id, n, m.ApproximateSize())
}

// SyncWAL flushes the write-ahead log to durable storage. It is a no-op
// when this memtable has no WAL.
func (m *MemTable) SyncWAL() error {
	if m.wal == nil {
		return nil
	}
	return m.wal.Sync()
}

// Iterator is a range-scan cursor over a MemTable's entries, satisfying
// the shared iterator contract (IsValid/Key/Value/Next).
type Iterator struct {
	cursor *scanIterator
	upper  Bound
}

// IsValid reports whether the iterator currently holds an entry. Once
// false, it stays false.
func (it *Iterator) IsValid() bool {
	if !it.cursor.valid() {
		return false
	}
	switch it.upper.Kind {
	case Included:
		return !key.Less(it.upper.Key, it.cursor.key())
	case Excluded:
		return key.Less(it.cursor.key(), it.upper.Key)
	default:
		return true
	}
}

// Key returns the current entry's key. Only valid when IsValid is true.
func (it *Iterator) Key() key.Key { return it.cursor.key() }

// Value returns the current entry's value. Only valid when IsValid is true.
func (it *Iterator) Value() []byte { return it.cursor.value() }

// Next advances to the next entry. A no-op once the iterator is invalid.
// It always returns nil: a memtable scan has no I/O path that can fail.
func (it *Iterator) Next() error {
	if it.cursor.valid() {
		it.cursor.next()
	}
	return nil
}

// NumActiveIterators is always 1 for a memtable scan: each Scan call
// returns an independent cursor with no shared mutable state to count.
func (it *Iterator) NumActiveIterators() int { return 1 }
