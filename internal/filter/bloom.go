// Package filter provides an SST-level membership hint backed by
// github.com/bits-and-blooms/bloom/v3. It answers "might this key be in
// this table" so a seek that would otherwise read and decode a block can
// be skipped for keys the table provably does not hold.
package filter

import (
	"bytes"
	"fmt"
	"math"

	bloomlib "github.com/bits-and-blooms/bloom/v3"

	"github.com/aalhour/lsmkv/internal/key"
	"github.com/aalhour/lsmkv/internal/lsmerrors"
)

// Bloom is a built, queryable filter over a fixed set of keys.
type Bloom struct {
	bf *bloomlib.BloomFilter
}

// BuildFromKeys constructs a filter sized for len(keys) entries at the
// given bits-per-key budget. bitsPerKey trades filter size for false
// positive rate; 10 bits/key gives roughly a 1% false positive rate.
func BuildFromKeys(keys []key.Key, bitsPerKey uint) *Bloom {
	n := uint(len(keys))
	if n == 0 {
		n = 1
	}
	m := n * bitsPerKey
	k := optimalNumHashes(m, n)

	bf := bloomlib.New(m, k)
	for _, k := range keys {
		bf.Add(k)
	}
	return &Bloom{bf: bf}
}

// optimalNumHashes picks k = (m/n) * ln(2), clamped to at least 1, matching
// the standard Bloom filter parameter derivation.
func optimalNumHashes(m, n uint) uint {
	if n == 0 {
		return 1
	}
	k := uint(math.Round(float64(m) / float64(n) * math.Ln2))
	if k < 1 {
		k = 1
	}
	return k
}

// MayContain reports whether k might be present. False means k is
// definitely absent; true may be a false positive.
func (b *Bloom) MayContain(k key.Key) bool {
	if b == nil || b.bf == nil {
		return true
	}
	return b.bf.Test(k)
}

// Encode serializes the filter to its on-disk byte representation.
func (b *Bloom) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.bf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: encode bloom filter: %v", lsmerrors.ErrCorruptBloom, err)
	}
	return buf.Bytes(), nil
}

// Decode parses a filter from bytes previously produced by Encode.
func Decode(data []byte) (*Bloom, error) {
	bf := &bloomlib.BloomFilter{}
	if _, err := bf.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: decode bloom filter: %v", lsmerrors.ErrCorruptBloom, err)
	}
	return &Bloom{bf: bf}, nil
}
