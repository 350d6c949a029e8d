package memtable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/aalhour/lsmkv/internal/key"
)

func TestMemTablePutGet(t *testing.T) {
	m := New(1, nil)
	m.Put(key.Key("a"), []byte("1"))
	m.Put(key.Key("b"), []byte("2"))
	m.Put(key.Key("a"), []byte("overwritten"))

	if v, ok := m.Get(key.Key("a")); !ok || string(v) != "overwritten" {
		t.Errorf("Get(a) = (%q, %v), want (overwritten, true)", v, ok)
	}
	if v, ok := m.Get(key.Key("b")); !ok || string(v) != "2" {
		t.Errorf("Get(b) = (%q, %v), want (2, true)", v, ok)
	}
	if _, ok := m.Get(key.Key("missing")); ok {
		t.Error("Get(missing) should report absent")
	}
}

func TestMemTableApproximateSizeMonotonic(t *testing.T) {
	m := New(1, nil)
	m.Put(key.Key("a"), []byte("1"))
	first := m.ApproximateSize()
	m.Put(key.Key("a"), []byte("1")) // overwrite with identical size
	second := m.ApproximateSize()
	m.Put(key.Key("bb"), []byte("22"))
	third := m.ApproximateSize()

	if second < first || third < second {
		t.Errorf("size counter not monotone: %d, %d, %d", first, second, third)
	}
}

func TestMemTableScanUnbounded(t *testing.T) {
	m := New(1, nil)
	for _, k := range []string{"c", "a", "b"} {
		m.Put(key.Key(k), []byte(k+"v"))
	}

	it := m.Scan(Bound{Kind: Unbounded}, Bound{Kind: Unbounded})
	var got []string
	for it.IsValid() {
		got = append(got, string(it.Key()))
		it.Next()
	}
	want := []string{"a", "b", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMemTableScanBounds(t *testing.T) {
	m := New(1, nil)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		m.Put(key.Key(k), []byte{1})
	}

	it := m.Scan(Bound{Kind: Included, Key: key.Key("b")}, Bound{Kind: Excluded, Key: key.Key("d")})
	var got []string
	for it.IsValid() {
		got = append(got, string(it.Key()))
		it.Next()
	}
	want := []string{"b", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMemTableScanExcludedLowerBound(t *testing.T) {
	m := New(1, nil)
	for _, k := range []string{"a", "b", "c"} {
		m.Put(key.Key(k), []byte{1})
	}
	it := m.Scan(Bound{Kind: Excluded, Key: key.Key("a")}, Bound{Kind: Unbounded})
	if !it.IsValid() || string(it.Key()) != "b" {
		t.Fatalf("first key after excluded(a) = %q, want b", it.Key())
	}
}

type fakeBuilder struct {
	entries [][2]string
}

func (b *fakeBuilder) Add(k key.Key, v []byte) bool {
	b.entries = append(b.entries, [2]string{string(k), string(v)})
	return true
}

func TestMemTableFlushPreservesOrder(t *testing.T) {
	m := New(1, nil)
	for _, k := range []string{"z", "a", "m"} {
		m.Put(key.Key(k), []byte(k))
	}

	b := &fakeBuilder{}
	m.Flush(b)

	want := [][2]string{{"a", "a"}, {"m", "m"}, {"z", "z"}}
	if fmt.Sprint(b.entries) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", b.entries, want)
	}
}

type fakeWAL struct {
	synced int
}

func (w *fakeWAL) Sync() error {
	w.synced++
	return nil
}

func TestMemTableSyncWAL(t *testing.T) {
	m := New(1, nil)
	if err := m.SyncWAL(); err != nil {
		t.Errorf("SyncWAL with no WAL should be a no-op, got %v", err)
	}

	wal := &fakeWAL{}
	m2 := New(1, wal)
	if err := m2.SyncWAL(); err != nil {
		t.Errorf("SyncWAL: %v", err)
	}
	if wal.synced != 1 {
		t.Errorf("wal.synced = %d, want 1", wal.synced)
	}
}

func TestMemTableConcurrentPutAndScan(t *testing.T) {
	m := New(1, nil)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Put(key.Key(fmt.Sprintf("k%03d", i)), []byte("v"))
		}(i)
	}
	wg.Wait()

	count := 0
	it := m.Scan(Bound{Kind: Unbounded}, Bound{Kind: Unbounded})
	for it.IsValid() {
		count++
		it.Next()
	}
	if count != 100 {
		t.Errorf("scanned %d entries, want 100", count)
	}
}
