package kmerhash

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/leomrtns/biomcmc-lib/dna"
	"github.com/stretchr/testify/assert"
)

func TestCodeForTwoBit(t *testing.T) {
	tests := []struct {
		sym      byte
		fwd, rev uint8
	}{
		{'A', 0, 3}, {'C', 1, 2}, {'G', 2, 1}, {'T', 3, 0}, {'U', 3, 0},
		{'a', 0, 3}, {'c', 1, 2}, {'g', 2, 1}, {'t', 3, 0}, {'u', 3, 0},
	}
	for _, test := range tests {
		fwd, rev := CodeFor(test.sym, TwoBit)
		expect.EQ(t, fwd, test.fwd, "symbol %q", test.sym)
		expect.EQ(t, rev, test.rev, "symbol %q", test.sym)
		expect.False(t, IsSkipped(test.sym, TwoBit))
	}
	for _, sym := range []byte("NnRYKMBDHVSWX-?.\x00\xff") {
		fwd, rev := CodeFor(sym, TwoBit)
		expect.True(t, fwd >= invalidCode, "symbol %q", sym)
		expect.True(t, rev >= invalidCode, "symbol %q", sym)
		expect.True(t, IsSkipped(sym, TwoBit))
	}
}

func TestCodeForOneBit(t *testing.T) {
	for _, sym := range []byte("ATUatu") {
		fwd, _ := CodeFor(sym, OneBit)
		expect.EQ(t, fwd, uint8(0), "symbol %q", sym)
	}
	for _, sym := range []byte("CGcg") {
		fwd, _ := CodeFor(sym, OneBit)
		expect.EQ(t, fwd, uint8(1), "symbol %q", sym)
	}
	expect.True(t, IsSkipped('N', OneBit))
	expect.True(t, IsSkipped('S', OneBit))
	// The AT/GC class does not change under complementation.
	for i := 0; i < 256; i++ {
		fwd, rev := CodeFor(byte(i), OneBit)
		expect.EQ(t, fwd, rev, "symbol %d", i)
	}
}

// reverseNibble swaps bits 0<->3 and 1<->2, i.e. A<->T and C<->G.
func reverseNibble(x uint8) uint8 {
	return (x&1)<<3 | (x&2)<<1 | (x&4)>>1 | (x&8)>>3
}

func TestCodeForFourBit(t *testing.T) {
	expectCode := func(sym byte, want uint8) {
		fwd, _ := CodeFor(sym, FourBit)
		expect.EQ(t, fwd, want, "symbol %q", sym)
	}
	expectCode('A', 1)
	expectCode('C', 2)
	expectCode('G', 4)
	expectCode('T', 8)
	expectCode('u', 8)
	expectCode('R', 5)
	expectCode('y', 10)
	expectCode('N', 15)
	expectCode('-', 0)
	expectCode('Z', 15)
	expectCode(0, 15)

	for i := 0; i < 256; i++ {
		sym := byte(i)
		fwd, rev := CodeFor(sym, FourBit)
		assert.True(t, fwd < 16)
		assert.Equal(t, reverseNibble(fwd), rev, "symbol %q", sym)
		assert.False(t, IsSkipped(sym, FourBit))
		// The reverse code is the forward code of the complementary symbol.
		cfwd, _ := CodeFor(dna.Complement(sym), FourBit)
		assert.Equal(t, cfwd, rev, "symbol %q", sym)
	}
}

func TestDecodeKmer(t *testing.T) {
	expect.EQ(t, DecodeKmer(0x1b, 4, TwoBit), "ACGT")
	expect.EQ(t, DecodeKmer(0x1b, 5, TwoBit), "AACGT")
	expect.EQ(t, DecodeKmer(0x0f5a, 4, FourBit), "-NRY")
	expect.EQ(t, DecodeKmer(0x5, 4, OneBit), "WSWS")
	expect.EQ(t, DecodeKmer(0, 0, TwoBit), "")
}

func TestDensity(t *testing.T) {
	expect.EQ(t, OneBit.BasesPerByte(), 8)
	expect.EQ(t, TwoBit.BasesPerByte(), 4)
	expect.EQ(t, FourBit.BasesPerByte(), 2)
	expect.EQ(t, TwoBit.String(), "2bit")
	expect.EQ(t, Density(3).String(), "invalid")
}
