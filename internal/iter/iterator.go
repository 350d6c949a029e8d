// Package iter provides the shared iterator contract and the
// combinators — k-way merge, two-way merge, and an error-latching
// wrapper — that fuse memtable and SST iterators into one sorted stream.
package iter

import "github.com/aalhour/lsmkv/internal/key"

// Iterator is the contract every source in the merge stack satisfies.
// Key and Value are only defined while IsValid is true. Once IsValid
// reports false, it must keep reporting false. Next on an exhausted
// iterator is a no-op and returns nil; an iterator whose Next has failed
// may keep returning an error from later Next calls.
type Iterator interface {
	IsValid() bool
	Key() key.Key
	Value() []byte
	Next() error
	NumActiveIterators() int
}
