// Package lsmerrors collects the sentinel and wrapped error values the
// storage core returns, grouped by the three kinds the error-handling
// design distinguishes: format errors, I/O errors, and iterator errors.
//
// Format errors are sentinels meant to be matched with errors.Is; I/O
// errors are surfaced unwrapped from the underlying filesystem call that
// produced them, and a child iterator's Next error is passed up through
// the iterator combinators as returned.
package lsmerrors

import "errors"

var (
	// ErrCorruptBlock is returned when a block's encoded bytes cannot be
	// decoded: the slice is too short, or the trailing offset table the
	// entry count declares doesn't fit the slice length. Entry length
	// fields are not checked at decode time.
	ErrCorruptBlock = errors.New("lsmkv: corrupt block")

	// ErrCorruptSST is returned when an SST's trailer, block-meta section,
	// or a block read through it fails to parse.
	ErrCorruptSST = errors.New("lsmkv: corrupt sstable")

	// ErrCorruptBloom is returned when the encoded bloom filter section of
	// an SST cannot be decoded.
	ErrCorruptBloom = errors.New("lsmkv: corrupt bloom filter")

	// ErrIterator names the iterator error kind. FusedIterator puts it in
	// the panic message when Key or Value is called on an invalid
	// iterator; the combinators do not wrap a failing child's error in it.
	ErrIterator = errors.New("lsmkv: iterator error")

	// ErrIteratorLatched is returned by FusedIterator.Next once a prior
	// call has already failed; the iterator never recovers.
	ErrIteratorLatched = errors.New("lsmkv: iterator already errored")
)
