package kmerhash

import (
	"github.com/grailbio/base/log"
)

// Iterator computes canonical k-mer hashes over a sequence, one symbol at a
// time, for every window configured in its Params.
//
// An Iterator is not thread safe. Many Iterators may share one Params.
//
// Example:
//
//	it := kmerhash.New(kmerhash.NewParams(kmerhash.Fast))
//	it.Reset(seq)
//	for it.Scan() {
//		for i := 0; i < it.NumHashes(); i++ {
//			if it.Filled(i) {
//				use(it.Hash(i))
//			}
//		}
//	}
type Iterator struct {
	p     *Params
	width uint // bits per symbol
	table *codeTable
	skip  bool // whether codes >= invalidCode are skipped

	fwd, rev Pair

	seq      []byte
	pos      int // symbols consumed, including skipped ones
	absorbed int // symbols pushed into the registers

	hash []uint64 // one per window, single-word windows first
	kmer []uint64 // one per single-word window

	buf [PairBytes]byte // scratch for double-word hashing
}

// New creates an Iterator for p. Call Reset before Scan.
func New(p *Params) *Iterator {
	return &Iterator{
		p:     p,
		width: uint(p.Density),
		table: tables.table(p.Density),
		skip:  p.Density != FourBit,
		hash:  make([]uint64, p.NumWindows()),
		kmer:  make([]uint64, len(p.Single)),
	}
}

// Reset binds the iterator to seq and clears all registers, outputs and the
// cursor. The iterator reads seq but never modifies it; seq must not be
// changed until the next Reset.
func (it *Iterator) Reset(seq []byte) {
	it.seq = seq
	it.pos = 0
	it.absorbed = 0
	it.fwd = Pair{}
	it.rev = Pair{}
	for i := range it.hash {
		it.hash[i] = 0
	}
	for i := range it.kmer {
		it.kmer[i] = 0
	}
}

// push consumes the next valid symbol, skipping ambiguous ones at OneBit and
// TwoBit density. It returns false if the input is exhausted first.
func (it *Iterator) push() bool {
	n := len(it.seq)
	if it.skip {
		for it.pos < n && it.table[it.seq[it.pos]][0] >= invalidCode {
			it.pos++
		}
	}
	if it.pos == n {
		return false
	}
	c := it.table[it.seq[it.pos]]
	it.fwd.PushLow(it.width, c[0])
	it.rev.PushHigh(it.width, c[1])
	it.pos++
	it.absorbed++
	return true
}

// Scan consumes one symbol (plus any skipped ones before it) and updates the
// hash of every window that is filled. On the first call it keeps consuming
// until the smallest window is filled. Scan returns false when the input has
// no more valid symbols; outputs are then left as of the previous call.
func (it *Iterator) Scan() bool {
	if !it.push() {
		return false
	}
	for minSize := it.p.MinSize(); it.absorbed < minSize; {
		if !it.push() {
			return false
		}
	}
	it.emitSingle()
	it.emitDouble()
	return true
}

func (it *Iterator) emitSingle() {
	for i := range it.p.Single {
		w := &it.p.Single[i]
		if it.absorbed < w.Size {
			return
		}
		fwd := it.fwd.Lo & w.Mask
		rev := it.rev.Hi >> w.Shift
		if rev < fwd {
			fwd = rev
		}
		it.kmer[i] = fwd
		ByteOrder.PutUint64(it.buf[0:8], fwd)
		it.hash[i] = it.p.Hash(it.buf[:w.NBytes], w.Seed)
	}
}

// emitDouble hashes the double-word windows. The canonical strand is the
// smaller value under a full 128-bit compare, not a word-by-word compare of
// forward Lo against reverse Hi. Words are compared most significant first: the masked
// forward Hi against the aligned reverse Hi, then the forward Lo against the
// aligned reverse Lo. The forward bytes are Lo then Hi; the reverse bytes are
// the same view of the reverse pair starting Shift/8 bytes in.
func (it *Iterator) emitDouble() {
	n1 := len(it.p.Single)
	for i := range it.p.Double {
		w := &it.p.Double[i]
		if it.absorbed < w.Size {
			return
		}
		revHi, revLo := it.rev.ShiftRight(w.Shift)
		if less128(it.fwd.Hi&w.Mask, it.fwd.Lo, revHi, revLo) {
			it.fwd.PutBytes(&it.buf)
			it.hash[n1+i] = it.p.Hash(it.buf[:w.NBytes], w.Seed)
		} else {
			it.rev.PutBytes(&it.buf)
			off := int(w.Shift / 8)
			it.hash[n1+i] = it.p.Hash(it.buf[off:off+w.NBytes], w.Seed)
		}
	}
}

// Params returns the configuration of the iterator.
func (it *Iterator) Params() *Params { return it.p }

// NumHashes is the number of windows, equal to Params().NumWindows().
func (it *Iterator) NumHashes() int { return len(it.hash) }

// Pos is the number of symbols consumed so far, including skipped ones.
func (it *Iterator) Pos() int { return it.pos }

// Absorbed is the number of symbols pushed into the windows so far.
func (it *Iterator) Absorbed() int { return it.absorbed }

// Filled reports whether window i has seen enough symbols for Hash(i) and
// Kmer(i) to be meaningful.
func (it *Iterator) Filled(i int) bool {
	return it.absorbed >= it.p.Window(i).Size
}

// Hash returns the last canonical hash of window i. It is zero until the
// window is filled.
func (it *Iterator) Hash(i int) uint64 { return it.hash[i] }

// Hashes returns the hash of every window. The slice is owned by the
// iterator and overwritten by Scan.
func (it *Iterator) Hashes() []uint64 { return it.hash }

// Kmer returns the last canonical packed value of single-word window i. It
// panics for a double-word window.
func (it *Iterator) Kmer(i int) uint64 {
	if i >= len(it.kmer) {
		log.Panicf("kmerhash: window %d spans two words and has no packed value", i)
	}
	return it.kmer[i]
}
