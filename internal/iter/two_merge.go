package iter

import "github.com/aalhour/lsmkv/internal/key"

// TwoMergeIterator merges two sorted sources, giving A priority on a key
// collision (B's matching entry is skipped rather than surfaced). It is
// generic over the two source types, such as the memtable merge
// (MergeIterator) and the SST merge (MergeIterator); both sides are held
// through the Iterator interface.
type TwoMergeIterator[A, B Iterator] struct {
	a, b    Iterator
	chooseA bool
}

// NewTwoMergeIterator builds the merge and positions it at whichever of
// a, b currently leads.
func NewTwoMergeIterator[A, B Iterator](a A, b B) *TwoMergeIterator[A, B] {
	m := &TwoMergeIterator[A, B]{a: a, b: b}
	m.chooseA = computeChooseA(a, b)
	return m
}

func computeChooseA(a, b Iterator) bool {
	if !a.IsValid() {
		return false
	}
	if !b.IsValid() {
		return true
	}
	return key.Compare(a.Key(), b.Key()) <= 0
}

// IsValid reports whether the currently-chosen side holds an entry.
func (m *TwoMergeIterator[A, B]) IsValid() bool {
	if m.chooseA {
		return m.a.IsValid()
	}
	return m.b.IsValid()
}

// Key returns the chosen side's current key.
func (m *TwoMergeIterator[A, B]) Key() key.Key {
	if m.chooseA {
		return m.a.Key()
	}
	return m.b.Key()
}

// Value returns the chosen side's current value.
func (m *TwoMergeIterator[A, B]) Value() []byte {
	if m.chooseA {
		return m.a.Value()
	}
	return m.b.Value()
}

// Next advances the chosen side, first skipping B past any entry equal
// to A's current key so a following A-then-B comparison never resurfaces
// a key A already emitted.
func (m *TwoMergeIterator[A, B]) Next() error {
	if m.chooseA {
		if err := m.skipBPastA(); err != nil {
			return err
		}
		if err := m.a.Next(); err != nil {
			return err
		}
	} else {
		if err := m.b.Next(); err != nil {
			return err
		}
	}
	m.chooseA = computeChooseA(m.a, m.b)
	return nil
}

func (m *TwoMergeIterator[A, B]) skipBPastA() error {
	if !m.a.IsValid() || !m.b.IsValid() {
		return nil
	}
	if !key.Equal(m.a.Key(), m.b.Key()) {
		return nil
	}
	return m.b.Next()
}

// NumActiveIterators sums both sides' active counts.
func (m *TwoMergeIterator[A, B]) NumActiveIterators() int {
	return m.a.NumActiveIterators() + m.b.NumActiveIterators()
}
