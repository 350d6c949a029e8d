package iter

import (
	"fmt"
	"testing"
)

func collectTwoMerge(m *TwoMergeIterator[*sliceIter, *sliceIter]) [][2]string {
	var got [][2]string
	for m.IsValid() {
		got = append(got, [2]string{string(m.Key()), string(m.Value())})
		m.Next()
	}
	return got
}

func TestTwoMergeIteratorAPriority(t *testing.T) {
	a := newSliceIter([][2]string{{"a", "a-1"}, {"c", "a-2"}})
	b := newSliceIter([][2]string{{"a", "b-1"}, {"b", "b-2"}, {"c", "b-3"}})

	m := NewTwoMergeIterator[*sliceIter, *sliceIter](a, b)
	got := collectTwoMerge(m)
	want := [][2]string{{"a", "a-1"}, {"b", "b-2"}, {"c", "a-2"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTwoMergeIteratorOneSideEmpty(t *testing.T) {
	a := newSliceIter(nil)
	b := newSliceIter([][2]string{{"x", "1"}, {"y", "2"}})

	m := NewTwoMergeIterator[*sliceIter, *sliceIter](a, b)
	got := collectTwoMerge(m)
	want := [][2]string{{"x", "1"}, {"y", "2"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTwoMergeIteratorBothEmpty(t *testing.T) {
	m := NewTwoMergeIterator[*sliceIter, *sliceIter](newSliceIter(nil), newSliceIter(nil))
	if m.IsValid() {
		t.Error("expected invalid merge of two empty sides")
	}
}
