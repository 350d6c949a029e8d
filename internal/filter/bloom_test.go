package filter

import (
	"fmt"
	"testing"

	"github.com/aalhour/lsmkv/internal/key"
)

func TestBloomMayContainNoFalseNegatives(t *testing.T) {
	keys := make([]key.Key, 0, 200)
	for i := range 200 {
		keys = append(keys, key.Key(fmt.Sprintf("key-%04d", i)))
	}

	b := BuildFromKeys(keys, 10)
	for _, k := range keys {
		if !b.MayContain(k) {
			t.Fatalf("MayContain(%q) = false, want true (false negatives are forbidden)", k)
		}
	}
}

func TestBloomAbsentKeysMostlyRejected(t *testing.T) {
	present := make([]key.Key, 0, 1000)
	for i := range 1000 {
		present = append(present, key.Key(fmt.Sprintf("present-%05d", i)))
	}
	b := BuildFromKeys(present, 10)

	falsePositives := 0
	total := 1000
	for i := range total {
		absent := key.Key(fmt.Sprintf("absent-%05d", i))
		if b.MayContain(absent) {
			falsePositives++
		}
	}

	// 10 bits/key targets roughly a 1% false positive rate; allow generous
	// headroom so the test isn't flaky.
	if falsePositives > total/10 {
		t.Errorf("false positive rate too high: %d/%d", falsePositives, total)
	}
}

func TestBloomEncodeDecodeRoundTrip(t *testing.T) {
	keys := []key.Key{key.Key("a"), key.Key("b"), key.Key("c")}
	b := BuildFromKeys(keys, 10)

	encoded, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for _, k := range keys {
		if !decoded.MayContain(k) {
			t.Errorf("decoded filter: MayContain(%q) = false, want true", k)
		}
	}
}

func TestBloomEmptyKeySet(t *testing.T) {
	b := BuildFromKeys(nil, 10)
	if b.MayContain(key.Key("anything")) {
		t.Error("empty filter should reject every key (beyond the rare hash collision)")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Error("Decode(garbage) should fail")
	}
}
