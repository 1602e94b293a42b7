package kmerhash

import "encoding/binary"

// ByteOrder is the byte order used to turn registers into the byte strings
// that get hashed. A Pair is serialized as Lo followed by Hi, so the pair
// reads as one little-endian 128-bit integer Hi:Lo.
var ByteOrder = binary.LittleEndian

// PairBytes is the size of a serialized Pair.
const PairBytes = 16

// Pair is a 128-bit register made of two 64-bit words. Lo holds the least
// significant bits.
//
// The forward window grows at the bottom: the newest symbol enters the low
// bits of Lo and the oldest bits leave from the top of Hi. The reverse
// complement window grows at the top: the newest (complemented) symbol enters
// the high bits of Hi and the oldest bits leave from the bottom of Lo. At
// every step the top w bits of the reverse pair, read as an integer, are the
// reverse complement of the bottom w bits of the forward pair.
type Pair struct {
	Lo, Hi uint64
}

// PushLow shifts p left by width bits with carry from Lo into Hi, and inserts
// code into the low bits of Lo.
func (p *Pair) PushLow(width uint, code uint8) {
	p.Hi = p.Hi<<width | p.Lo>>(64-width)
	p.Lo = p.Lo<<width | uint64(code)
}

// PushHigh shifts p right by width bits with carry from Hi into Lo, and
// inserts code into the high bits of Hi.
func (p *Pair) PushHigh(width uint, code uint8) {
	p.Lo = p.Lo>>width | p.Hi<<(64-width)
	p.Hi = p.Hi>>width | uint64(code)<<(64-width)
}

// ShiftRight returns the two words of p>>n for 0 <= n < 64.
func (p Pair) ShiftRight(n uint) (hi, lo uint64) {
	if n == 0 {
		return p.Hi, p.Lo
	}
	return p.Hi >> n, p.Lo>>n | p.Hi<<(64-n)
}

// PutBytes serializes p into buf in ByteOrder.
func (p Pair) PutBytes(buf *[PairBytes]byte) {
	ByteOrder.PutUint64(buf[0:8], p.Lo)
	ByteOrder.PutUint64(buf[8:16], p.Hi)
}

// less128 reports whether the 128-bit value aHi:aLo is below bHi:bLo.
func less128(aHi, aLo, bHi, bLo uint64) bool {
	if aHi != bHi {
		return aHi < bHi
	}
	return aLo < bLo
}
