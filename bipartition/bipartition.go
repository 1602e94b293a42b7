// Package bipartition implements bitstrings of arbitrary length, used to
// represent the splits (bipartitions) of the leaves of a phylogenetic tree.
//
// Bit i is set when leaf i is on the "one" side of the split. All
// bipartitions of a tree share one Size, so that reducing the number of
// leaves (e.g. when pruning a tree) updates all of them at once.
package bipartition

import (
	"github.com/grailbio/base/bitset"
	"github.com/grailbio/base/log"
)

// BitsPerWord is the number of bits per storage word.
const BitsPerWord = bitset.BitsPerWord

// Size describes the active bits of a group of bipartitions.
type Size struct {
	// Mask selects the active bits of the last active word.
	Mask uintptr
	// Words is the number of active words, Bits the number of active bits.
	Words, Bits int
	// Original is the number of bits the storage was allocated for.
	Original int
}

func wordsFor(nbits int) int { return (nbits + BitsPerWord - 1) / BitsPerWord }

// NewSize creates a Size for nbits bits.
func NewSize(nbits int) *Size {
	if nbits <= 0 {
		log.Panicf("bipartition.NewSize: number of bits must be positive, got %d", nbits)
	}
	s := &Size{Original: nbits}
	s.Resize(nbits)
	return s
}

// Resize sets the number of active bits to nbits, which cannot exceed the
// original size. Bipartitions sharing s must be Trimmed afterwards.
func (s *Size) Resize(nbits int) {
	if nbits <= 0 || nbits > s.Original {
		log.Panicf("bipartition.Size.Resize: %d bits out of range (1, %d)", nbits, s.Original)
	}
	s.Bits = nbits
	s.Words = wordsFor(nbits)
	if r := nbits % BitsPerWord; r != 0 {
		s.Mask = uintptr(1)<<uint(r) - 1
	} else {
		s.Mask = ^uintptr(0)
	}
}

// Bipartition is a bitstring with a cached count of set bits.
type Bipartition struct {
	words []uintptr
	nOnes int
	size  *Size
}

// New creates an all-zero bipartition of nbits bits with its own Size.
func New(nbits int) *Bipartition { return NewFromSize(NewSize(nbits)) }

// NewFromSize creates an all-zero bipartition sharing s.
func NewFromSize(s *Size) *Bipartition {
	return &Bipartition{words: make([]uintptr, wordsFor(s.Original)), size: s}
}

// Copy returns a new bipartition with the contents and Size of b.
func (b *Bipartition) Copy() *Bipartition {
	c := NewFromSize(b.size)
	c.CopyFrom(b)
	return c
}

// CopyFrom overwrites b with the contents of from.
func (b *Bipartition) CopyFrom(from *Bipartition) {
	copy(b.words, from.words)
	b.nOnes = from.nOnes
}

// Size returns the Size shared by b.
func (b *Bipartition) Size() *Size { return b.size }

// Words returns the storage words of b. Bits past Size().Bits are zero
// unless the Size shrank and b was not Trimmed.
func (b *Bipartition) Words() []uintptr { return b.words[:b.size.Words] }

// NOnes returns the cached number of set bits. See Count.
func (b *Bipartition) NOnes() int { return b.nOnes }

// Zero clears all bits.
func (b *Bipartition) Zero() {
	for i := range b.words {
		b.words[i] = 0
	}
	b.nOnes = 0
}

// Initialize clears all bits but the one at pos.
func (b *Bipartition) Initialize(pos int) {
	b.Zero()
	bitset.Set(b.words, pos)
	b.nOnes = 1
}

func (b *Bipartition) checkPos(pos int) {
	if pos < 0 || pos >= b.size.Bits {
		log.Panicf("bipartition: bit %d out of range [0, %d)", pos, b.size.Bits)
	}
}

// Set sets the bit at pos.
func (b *Bipartition) Set(pos int) {
	b.checkPos(pos)
	if !bitset.Test(b.words, pos) {
		bitset.Set(b.words, pos)
		b.nOnes++
	}
}

// Unset clears the bit at pos.
func (b *Bipartition) Unset(pos int) {
	b.checkPos(pos)
	if bitset.Test(b.words, pos) {
		bitset.Clear(b.words, pos)
		b.nOnes--
	}
}

// IsSet reports whether the bit at pos is set.
func (b *Bipartition) IsSet(pos int) bool {
	b.checkPos(pos)
	return bitset.Test(b.words, pos)
}

// Trim clears the bits beyond the active size and recounts. Call it after
// the shared Size shrinks.
func (b *Bipartition) Trim() {
	n := b.size.Words
	b.words[n-1] &= b.size.Mask
	for i := n; i < len(b.words); i++ {
		b.words[i] = 0
	}
	b.Count()
}
