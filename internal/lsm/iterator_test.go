package lsm

import (
	"fmt"
	"testing"

	"github.com/aalhour/lsmkv/internal/iter"
	"github.com/aalhour/lsmkv/internal/key"
)

type sliceIter struct {
	entries [][2]string
	idx     int
}

func newSliceIter(entries [][2]string) *sliceIter {
	return &sliceIter{entries: entries}
}

func (s *sliceIter) IsValid() bool { return s.idx < len(s.entries) }
func (s *sliceIter) Key() key.Key  { return key.Key(s.entries[s.idx][0]) }
func (s *sliceIter) Value() []byte { return []byte(s.entries[s.idx][1]) }
func (s *sliceIter) Next() error   { s.idx++; return nil }
func (s *sliceIter) NumActiveIterators() int {
	if s.IsValid() {
		return 1
	}
	return 0
}

func collect(it *Iterator) [][2]string {
	var got [][2]string
	for it.IsValid() {
		got = append(got, [2]string{string(it.Key()), string(it.Value())})
		it.Next()
	}
	return got
}

// Scenario 5: LSM tombstone elision — a deleted key (empty value) in the
// memtable must never surface, even though an older SST value exists.
func TestLsmIteratorElidesTombstones(t *testing.T) {
	memtable := newSliceIter([][2]string{{"a", ""}, {"b", "mem-b"}})
	sstable := newSliceIter([][2]string{{"a", "sst-a"}, {"b", "sst-b"}, {"c", "sst-c"}})

	it, err := New([]iter.Iterator{memtable}, []iter.Iterator{sstable}, Bound{Kind: Unbounded})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(it)
	want := [][2]string{{"b", "mem-b"}, {"c", "sst-c"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Scenario 6: an excluded upper bound cuts off the bound key itself and
// everything after it.
func TestLsmIteratorUpperBoundExcluded(t *testing.T) {
	memtable := newSliceIter([][2]string{{"a", "a-v"}, {"b", "b-v"}, {"c", "c-v"}})

	it, err := New([]iter.Iterator{memtable}, nil, Bound{Kind: Excluded, Key: key.Key("c")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(it)
	want := [][2]string{{"a", "a-v"}, {"b", "b-v"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLsmIteratorTombstoneBeyondUpperBoundEndsIteration(t *testing.T) {
	memtable := newSliceIter([][2]string{{"a", "a-v"}, {"z", ""}})

	it, err := New([]iter.Iterator{memtable}, nil, Bound{Kind: Excluded, Key: key.Key("m")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(it)
	want := [][2]string{{"a", "a-v"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLsmIteratorIncludedUpperBound(t *testing.T) {
	memtable := newSliceIter([][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}})

	it, err := New([]iter.Iterator{memtable}, nil, Bound{Kind: Included, Key: key.Key("b")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(it)
	want := [][2]string{{"a", "1"}, {"b", "2"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLsmIteratorMemtablePriorityOverSST(t *testing.T) {
	memtable := newSliceIter([][2]string{{"a", "mem"}})
	sstable := newSliceIter([][2]string{{"a", "sst"}})

	it, err := New([]iter.Iterator{memtable}, []iter.Iterator{sstable}, Bound{Kind: Unbounded})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !it.IsValid() || string(it.Value()) != "mem" {
		t.Errorf("Value() = %q, want mem (memtable must shadow SST)", it.Value())
	}
}

func TestLsmIteratorEmptyIsInvalid(t *testing.T) {
	it, err := New(nil, nil, Bound{Kind: Unbounded})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if it.IsValid() {
		t.Error("expected an empty LSM iterator to be invalid")
	}
}
