package iter

import (
	"fmt"

	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
)

// FusedIterator wraps an Iterator and latches the first error: once an
// underlying Next fails, the fused iterator reports invalid forever and
// every subsequent Next is a no-op that returns ErrIteratorLatched.
type FusedIterator struct {
	inner      Iterator
	hasErrored bool
}

// NewFusedIterator wraps inner.
func NewFusedIterator(inner Iterator) *FusedIterator {
	return &FusedIterator{inner: inner}
}

// IsValid reports false once latched, regardless of the inner iterator's
// own state.
func (f *FusedIterator) IsValid() bool {
	return !f.hasErrored && f.inner.IsValid()
}

// Key panics if called while errored or invalid, matching the contract
// that Key/Value are only defined when IsValid is true.
func (f *FusedIterator) Key() key.Key {
	if !f.IsValid() {
		panic(fmt.Sprintf("%v: Key called on an invalid iterator", lsmerrors.ErrIterator))
	}
	return f.inner.Key()
}

// Value panics under the same condition as Key.
func (f *FusedIterator) Value() []byte {
	if !f.IsValid() {
		panic(fmt.Sprintf("%v: Value called on an invalid iterator", lsmerrors.ErrIterator))
	}
	return f.inner.Value()
}

// Next is a no-op once latched; otherwise it delegates and latches on
// error.
func (f *FusedIterator) Next() error {
	if f.hasErrored {
		return lsmerrors.ErrIteratorLatched
	}
	if err := f.inner.Next(); err != nil {
		f.hasErrored = true
		return err
	}
	return nil
}

// NumActiveIterators delegates to the inner iterator.
func (f *FusedIterator) NumActiveIterators() int {
	return f.inner.NumActiveIterators()
}
