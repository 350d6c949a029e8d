package memtable

import (
	"fmt"
	"testing"

	"github.com/aalhour/lsmkv/internal/key"
)

func TestSkipListUpsertAndGet(t *testing.T) {
	sl := newSkipList()
	sl.Upsert(key.Key("b"), []byte("2"))
	sl.Upsert(key.Key("a"), []byte("1"))
	sl.Upsert(key.Key("b"), []byte("2-updated"))

	if v, ok := sl.Get(key.Key("a")); !ok || string(v) != "1" {
		t.Errorf("Get(a) = (%q,%v)", v, ok)
	}
	if v, ok := sl.Get(key.Key("b")); !ok || string(v) != "2-updated" {
		t.Errorf("Get(b) = (%q,%v), want 2-updated", v, ok)
	}
	if _, ok := sl.Get(key.Key("z")); ok {
		t.Error("Get(z) should report absent")
	}
}

func TestSkipListOrderedIteration(t *testing.T) {
	sl := newSkipList()
	for i := 20; i >= 0; i-- {
		sl.Upsert(key.Key(fmt.Sprintf("k%03d", i)), []byte{byte(i)})
	}

	it := sl.seekToFirst()
	prev := ""
	count := 0
	for it.valid() {
		cur := string(it.key())
		if prev != "" && cur < prev {
			t.Fatalf("iteration not ascending: %q after %q", cur, prev)
		}
		prev = cur
		count++
		it.next()
	}
	if count != 21 {
		t.Errorf("count = %d, want 21", count)
	}
}

func TestSkipListSeek(t *testing.T) {
	sl := newSkipList()
	for _, k := range []string{"a", "c", "e", "g"} {
		sl.Upsert(key.Key(k), []byte{1})
	}

	it := sl.seek(key.Key("d"))
	if !it.valid() || string(it.key()) != "e" {
		t.Errorf("seek(d) landed on %q, want e", it.key())
	}

	it = sl.seek(key.Key("z"))
	if it.valid() {
		t.Errorf("seek(z) should be invalid, got %q", it.key())
	}
}
