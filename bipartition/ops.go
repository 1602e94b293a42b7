package bipartition

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/grailbio/base/bitset"
)

// The binary operators below store their result in r, which may alias
// either operand. With updateCount false the cached count of r is left as
// described by each operator; use Count to refresh it.

// OR sets r to b1 | b2. Without updateCount, the count becomes the sum of
// the operand counts, which is exact for disjoint operands (e.g. sibling
// subtrees).
func (r *Bipartition) OR(b1, b2 *Bipartition, updateCount bool) {
	n := b1.nOnes + b2.nOnes
	for i := 0; i < r.size.Words; i++ {
		r.words[i] = b1.words[i] | b2.words[i]
	}
	r.finish(updateCount, n)
}

// AND sets r to b1 & b2.
func (r *Bipartition) AND(b1, b2 *Bipartition, updateCount bool) {
	for i := 0; i < r.size.Words; i++ {
		r.words[i] = b1.words[i] & b2.words[i]
	}
	r.finish(updateCount, r.nOnes)
}

// ANDNOT sets r to b1 &^ b2, the bits of b1 missing from b2.
func (r *Bipartition) ANDNOT(b1, b2 *Bipartition, updateCount bool) {
	for i := 0; i < r.size.Words; i++ {
		r.words[i] = b1.words[i] &^ b2.words[i]
	}
	r.finish(updateCount, r.nOnes)
}

// XOR sets r to b1 ^ b2.
func (r *Bipartition) XOR(b1, b2 *Bipartition, updateCount bool) {
	for i := 0; i < r.size.Words; i++ {
		r.words[i] = b1.words[i] ^ b2.words[i]
	}
	r.finish(updateCount, r.nOnes)
}

// XORNOT sets r to b1 ^ ^b2, i.e. the bits where b1 and b2 agree.
func (r *Bipartition) XORNOT(b1, b2 *Bipartition, updateCount bool) {
	last := r.size.Words - 1
	for i := 0; i < last; i++ {
		r.words[i] = b1.words[i] ^ ^b2.words[i]
	}
	r.words[last] = (b1.words[last] ^ ^b2.words[last]) & r.size.Mask
	r.finish(updateCount, r.nOnes)
}

// NOT sets r to the complement of b within the active bits. The count is
// always exact.
func (r *Bipartition) NOT(b *Bipartition) {
	last := r.size.Words - 1
	for i := 0; i < last; i++ {
		r.words[i] = ^b.words[i]
	}
	r.words[last] = ^b.words[last] & r.size.Mask
	r.nOnes = r.size.Bits - b.nOnes
}

func (r *Bipartition) finish(updateCount bool, n int) {
	if updateCount {
		r.Count()
	} else {
		r.nOnes = n
	}
}

// Count recounts and caches the number of set bits of b.
func (b *Bipartition) Count() int {
	b.nOnes = b.CountPop1()
	return b.nOnes
}

// CountPop0 counts set bits one by one.
func (b *Bipartition) CountPop0() int {
	n := 0
	for i := 0; i < b.size.Bits; i++ {
		if bitset.Test(b.words, i) {
			n++
		}
	}
	return n
}

// CountPop1 counts set bits with the hardware population count.
func (b *Bipartition) CountPop1() int {
	n := 0
	for _, w := range b.Words() {
		n += bits.OnesCount64(uint64(w))
	}
	return n
}

// CountPop2 counts set bits by clearing the lowest one until none is left.
func (b *Bipartition) CountPop2() int {
	n := 0
	for _, w := range b.Words() {
		for x := uint64(w); x != 0; x &= x - 1 {
			n++
		}
	}
	return n
}

// CountPop3 counts set bits with the parallel bit-sum method.
func (b *Bipartition) CountPop3() int {
	const (
		m1  = 0x5555555555555555
		m2  = 0x3333333333333333
		m4  = 0x0f0f0f0f0f0f0f0f
		h01 = 0x0101010101010101
	)
	n := 0
	for _, w := range b.Words() {
		x := uint64(w)
		x -= (x >> 1) & m1
		x = (x & m2) + ((x >> 2) & m2)
		x = (x + (x >> 4)) & m4
		n += int((x * h01) >> 56)
	}
	return n
}

// Equal reports whether b1 and b2 have the same bits.
func Equal(b1, b2 *Bipartition) bool {
	w1, w2 := b1.Words(), b2.Words()
	last := len(w1) - 1
	for i := 0; i < last; i++ {
		if w1[i] != w2[i] {
			return false
		}
	}
	return w1[last]&b1.size.Mask == w2[last]&b1.size.Mask
}

// EqualBothSides reports whether b1 and b2 describe the same split: they
// are equal or complementary.
func EqualBothSides(b1, b2 *Bipartition) bool {
	if Equal(b1, b2) {
		return true
	}
	w1, w2 := b1.Words(), b2.Words()
	last := len(w1) - 1
	for i := 0; i < last; i++ {
		if w1[i] != ^w2[i] {
			return false
		}
	}
	return w1[last]&b1.size.Mask == ^w2[last]&b1.size.Mask
}

// Compare orders bipartitions by number of set bits, ties broken by the
// bitstrings read from the highest word down. It returns -1, 0 or 1.
func Compare(b1, b2 *Bipartition) int {
	switch {
	case b1.nOnes < b2.nOnes:
		return -1
	case b1.nOnes > b2.nOnes:
		return 1
	}
	w1, w2 := b1.Words(), b2.Words()
	for i := len(w1) - 1; i >= 0; i-- {
		switch {
		case w1[i] < w2[i]:
			return -1
		case w1[i] > w2[i]:
			return 1
		}
	}
	return 0
}

// IsLarger reports whether b1 sorts after b2 under Compare.
func IsLarger(b1, b2 *Bipartition) bool { return Compare(b1, b2) > 0 }

// FlipToSmallerSet complements b if more than half of its bits are set, so
// that both sides of a split have one representation. On a tie the side
// without bit 0 is kept.
func (b *Bipartition) FlipToSmallerSet() {
	twice := 2 * b.nOnes
	if twice > b.size.Bits || (twice == b.size.Bits && bitset.Test(b.words, 0)) {
		b.NOT(b)
	}
}

// Contains reports whether every bit of b2 is set in b1.
func Contains(b1, b2 *Bipartition) bool {
	w1, w2 := b1.Words(), b2.Words()
	for i := range w1 {
		if w2[i]&^w1[i] != 0 {
			return false
		}
	}
	return true
}

// Indices returns the positions of the set bits in increasing order.
func (b *Bipartition) Indices() []int {
	words := append([]uintptr(nil), b.Words()...)
	nNonzero := 0
	for _, w := range words {
		if w != 0 {
			nNonzero++
		}
	}
	if nNonzero == 0 {
		return nil
	}
	idx := make([]int, 0, b.nOnes)
	// The scanner clears the bits it visits, hence the copy.
	for s, i := bitset.NewNonzeroWordScanner(words, nNonzero); i != -1; i = s.Next() {
		idx = append(idx, i)
	}
	return idx
}

// String prints the active bits, bit 0 first, followed by the cached count.
func (b *Bipartition) String() string {
	var sb strings.Builder
	for i := 0; i < b.size.Bits; i++ {
		if bitset.Test(b.words, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	fmt.Fprintf(&sb, " %d", b.nOnes)
	return sb.String()
}
