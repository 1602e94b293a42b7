package kmerhash

import (
	"strings"
	"sync"

	"github.com/grailbio/base/log"
)

// Density is the number of bits used to encode one sequence symbol.
type Density uint8

const (
	// OneBit encodes only the AT-vs-GC class of a base.
	OneBit Density = 1
	// TwoBit encodes A, C, G and T. Any other symbol is skipped.
	TwoBit Density = 2
	// FourBit encodes the IUPAC ambiguity set of a symbol as a T,G,C,A
	// membership mask. No symbol is ever skipped.
	FourBit Density = 4
)

// invalidCode marks a symbol that must be skipped at OneBit and TwoBit
// density. Any code >= invalidCode is treated the same way.
const invalidCode = uint8(4)

// BasesPerByte returns the number of symbols packed in one byte.
func (d Density) BasesPerByte() int { return 8 / int(d) }

func (d Density) String() string {
	switch d {
	case OneBit:
		return "1bit"
	case TwoBit:
		return "2bit"
	case FourBit:
		return "4bit"
	}
	return "invalid"
}

// codeTable maps an ASCII symbol to its {forward, reverse-complement} code.
type codeTable [256][2]uint8

type codeTables struct {
	once           sync.Once
	one, two, four codeTable
}

var tables codeTables

// fourBitCodes lists the IUPAC symbols and their T,G,C,A membership masks.
// The ACGT bit order is the PAUP convention.
var fourBitCodes = []struct {
	sym      byte
	fwd, rev uint8
}{
	{'A', 0x1, 0x8}, // A     <-> T
	{'B', 0xe, 0x7}, // TGC   <-> ACG
	{'C', 0x2, 0x4}, // C     <-> G
	{'D', 0xd, 0xb}, // TGA   <-> TCA
	{'G', 0x4, 0x2}, // G     <-> C
	{'H', 0xb, 0xd}, // TCA   <-> TGA
	{'K', 0xc, 0x3}, // TG    <-> AC
	{'M', 0x3, 0xc}, // CA    <-> TG
	{'N', 0xf, 0xf},
	{'O', 0xf, 0xf},
	{'R', 0x5, 0xa}, // GA    <-> TC
	{'S', 0x6, 0x6}, // GC
	{'T', 0x8, 0x1}, // T     <-> A
	{'U', 0x8, 0x1},
	{'V', 0x7, 0xe}, // GCA   <-> TGC
	{'W', 0x9, 0x9}, // TA
	{'X', 0xf, 0xf},
	{'Y', 0xa, 0x5}, // TC    <-> GA
	{'?', 0xf, 0xf},
	{'-', 0x0, 0x0}, // gap, the fifth state
}

func (t *codeTables) init() {
	t.once.Do(func() {
		for i := range t.four {
			// Anything outside the IUPAC alphabet matches any base.
			t.four[i] = [2]uint8{0xf, 0xf}
			t.two[i] = [2]uint8{invalidCode, invalidCode}
			t.one[i] = [2]uint8{invalidCode, invalidCode}
		}
		set := func(tbl *codeTable, sym byte, fwd, rev uint8) {
			tbl[sym] = [2]uint8{fwd, rev}
			if lower := sym | 0x20; lower >= 'a' && lower <= 'z' {
				tbl[lower] = [2]uint8{fwd, rev}
			}
		}
		for _, c := range fourBitCodes {
			set(&t.four, c.sym, c.fwd, c.rev)
		}
		set(&t.two, 'A', 0, 3)
		set(&t.two, 'C', 1, 2)
		set(&t.two, 'G', 2, 1)
		set(&t.two, 'T', 3, 0)
		set(&t.two, 'U', 3, 0)
		// AT and GC classes map onto themselves under complementation, so
		// the reverse code equals the forward code.
		for _, sym := range []byte("ATU") {
			set(&t.one, sym, 0, 0)
		}
		for _, sym := range []byte("CG") {
			set(&t.one, sym, 1, 1)
		}
	})
}

func (t *codeTables) table(d Density) *codeTable {
	t.init()
	switch d {
	case OneBit:
		return &t.one
	case TwoBit:
		return &t.two
	case FourBit:
		return &t.four
	}
	log.Panicf("kmerhash: invalid density %d", d)
	return nil
}

// CodeFor returns the forward and reverse-complement codes of symbol at the
// given density. At OneBit and TwoBit density, a code >= 4 means the symbol
// must be skipped.
func CodeFor(symbol byte, d Density) (forward, reverse uint8) {
	c := tables.table(d)[symbol]
	return c[0], c[1]
}

// IsSkipped reports whether symbol is ignored by an Iterator running at the
// given density.
func IsSkipped(symbol byte, d Density) bool {
	if d == FourBit {
		return false
	}
	fwd, _ := CodeFor(symbol, d)
	return fwd >= invalidCode
}

var fourBitLetters = [16]byte{'-', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}

// DecodeKmer expands the low size*d bits of v into symbols, oldest symbol
// first. TwoBit values decode to ACGT, FourBit values to one IUPAC letter per
// mask, and OneBit values to W (AT) or S (GC).
func DecodeKmer(v uint64, size int, d Density) string {
	var b strings.Builder
	b.Grow(size)
	width := uint(d)
	mask := uint64(1)<<width - 1
	for i := size - 1; i >= 0; i-- {
		code := (v >> (uint(i) * width)) & mask
		switch d {
		case OneBit:
			b.WriteByte("WS"[code])
		case TwoBit:
			b.WriteByte("ACGT"[code])
		default:
			b.WriteByte(fourBitLetters[code])
		}
	}
	return b.String()
}
