package kmerhash

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Mode selects a preset of window lengths and a symbol density.
type Mode int

const (
	// Fastest hashes 2 window lengths at 2 bits per base.
	Fastest Mode = iota
	// Fast hashes 6 window lengths at 2 bits per base.
	Fast
	// Genome hashes 8 window lengths at 4 bits per base.
	Genome
	// Phylogenetics hashes 7 short window lengths at 2 bits per base.
	Phylogenetics
	// AllSizes hashes all 11 window lengths at 4 bits per base.
	AllSizes
	// GCContent hashes 4 window lengths at 1 bit per base.
	GCContent

	numModes = iota
)

// DefaultMode is used by NewParams when given a mode outside
// [Fastest, GCContent].
const DefaultMode = Phylogenetics

var modeNames = [numModes]string{
	"fastest (2 kmer sizes)",
	"fast (6 kmer sizes)",
	"genome",
	"phylogenetics (short kmers)",
	"all 11 kmer sizes",
	"GC content kmers",
}

// modeKeys are the short names accepted by ParseMode.
var modeKeys = [numModes]string{"fastest", "fast", "genome", "phylogenetics", "all", "gc"}

// Valid reports whether m is one of the presets.
func (m Mode) Valid() bool { return m >= 0 && m < numModes }

func (m Mode) String() string {
	if !m.Valid() {
		return "invalid mode " + strconv.Itoa(int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a short preset name ("fastest", "fast", "genome",
// "phylogenetics", "all", "gc"), the long description printed by
// Mode.String, or the preset number. Unlike NewParams it rejects anything
// else.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for i := Mode(0); i < numModes; i++ {
		if strings.EqualFold(s, modeKeys[i]) || strings.EqualFold(s, modeNames[i]) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Mode(n).Valid() {
		return Mode(n), nil
	}
	return 0, errors.E(errors.Invalid, "kmerhash: unknown mode", strconv.Quote(s))
}

// Key returns the short name of m accepted by ParseMode.
func (m Mode) Key() string {
	if !m.Valid() {
		return ""
	}
	return modeKeys[m]
}

// Modes lists all presets.
func Modes() []Mode {
	m := make([]Mode, numModes)
	for i := range m {
		m[i] = Mode(i)
	}
	return m
}

// granule describes the part of a window that lives in one 64-bit word,
// counted in whole bytes.
type granule struct {
	mask  uint64
	shift uint // 64 - 8*nbytes
	nbyte int
	seed  uint64
}

var granules = [...]granule{
	{0xffff, 48, 2, 0x9040a6},
	{0xffffff, 40, 3, 0x10bea992},
	{0xffffffff, 32, 4, 0x50edd67d},
	{0xffffffffff, 24, 5, 0xb05a4f09},
	{0xffffffffffff, 16, 6, 0xf07046c5},
	{0xffffffffffffff, 8, 7, 0x9c9445ab},
	{0xffffffffffffffff, 0, 8, 0xb2500f29},
}

// doubleSeed decorrelates the seed of a double-word window from the
// single-word window built on the same granule.
func doubleSeed(seed uint64) uint64 { return (seed >> 2) + 0x420314a1d }

type preset struct {
	density Density
	single  []int // indexes into granules
	double  []int
}

var presets = [numModes]preset{
	Fastest:       {TwoBit, []int{2, 6}, nil},
	Fast:          {TwoBit, []int{0, 2, 4, 6}, []int{2, 6}},
	Genome:        {FourBit, []int{0, 1, 2, 4, 6}, []int{0, 2, 6}},
	Phylogenetics: {TwoBit, []int{0, 1, 2, 3, 4, 5, 6}, nil},
	AllSizes:      {FourBit, []int{0, 1, 2, 3, 4, 5, 6}, []int{0, 1, 2, 6}},
	GCContent:     {OneBit, []int{2, 6}, []int{2, 6}},
}

// Window describes one configured k-mer length.
type Window struct {
	// Size is the number of symbols needed to fill the window.
	Size int
	// NBytes is the number of bytes fed to the hash function.
	NBytes int
	// Mask selects the window bits of the forward word that holds the most
	// significant part of the window: Lo for single-word windows, Hi for
	// double-word ones.
	Mask uint64
	// Shift aligns the reverse-complement register with the window: the
	// reverse value is Hi>>Shift for single-word windows and the pair >>
	// Shift for double-word ones. Shift is always a multiple of 8.
	Shift uint
	// Seed is passed to the hash function.
	Seed uint64
	// Double is set when the window spans both words of a Pair.
	Double bool
}

// Params is an immutable k-mer configuration. It may be shared by any number
// of Iterators, including ones running on different goroutines.
type Params struct {
	// Mode is the preset the Params was built from.
	Mode Mode
	// Density is the number of bits per symbol.
	Density Density
	// Single lists the windows that fit in one 64-bit word, in increasing
	// order of Size.
	Single []Window
	// Double lists the windows that need two words, in increasing order of
	// Size. Every double window is larger than every single one.
	Double []Window
	// Hash hashes the canonical bytes of each window.
	Hash HashFunc
}

// NewParams builds the configuration of mode, hashing with XXH64. A mode
// outside the presets falls back to DefaultMode.
func NewParams(mode Mode) *Params {
	return NewParamsWithHash(mode, nil)
}

// NewParamsWithHash is NewParams with a caller-supplied hash function. A nil
// hash selects XXH64.
func NewParamsWithHash(mode Mode, hash HashFunc) *Params {
	if !mode.Valid() {
		log.Debug.Printf("kmerhash: mode %d out of range, using %v", int(mode), DefaultMode)
		mode = DefaultMode
	}
	if hash == nil {
		hash = XXH64
	}
	ps := presets[mode]
	bpb := ps.density.BasesPerByte()
	p := &Params{
		Mode:    mode,
		Density: ps.density,
		Single:  make([]Window, len(ps.single)),
		Double:  make([]Window, len(ps.double)),
		Hash:    hash,
	}
	for i, gi := range ps.single {
		g := granules[gi]
		p.Single[i] = Window{
			Size:   g.nbyte * bpb,
			NBytes: g.nbyte,
			Mask:   g.mask,
			Shift:  g.shift,
			Seed:   g.seed,
		}
	}
	for i, gi := range ps.double {
		g := granules[gi]
		p.Double[i] = Window{
			Size:   (g.nbyte + 8) * bpb,
			NBytes: g.nbyte + 8,
			Mask:   g.mask,
			Shift:  g.shift,
			Seed:   doubleSeed(g.seed),
			Double: true,
		}
	}
	return p
}

// NumWindows is the total number of configured windows.
func (p *Params) NumWindows() int { return len(p.Single) + len(p.Double) }

// Window returns the i'th window. Single-word windows come first, followed
// by double-word ones, so i matches the index used by Iterator.Hash.
func (p *Params) Window(i int) Window {
	if i < len(p.Single) {
		return p.Single[i]
	}
	return p.Double[i-len(p.Single)]
}

// Sizes lists the window sizes in symbols, in Window order.
func (p *Params) Sizes() []int {
	sizes := make([]int, 0, p.NumWindows())
	for i := 0; i < p.NumWindows(); i++ {
		sizes = append(sizes, p.Window(i).Size)
	}
	return sizes
}

// MinSize is the size of the smallest window.
func (p *Params) MinSize() int { return p.Single[0].Size }

// Opts is the user-facing configuration of a Params.
type Opts struct {
	// Mode is the preset name, as accepted by ParseMode.
	Mode string
	// HashName names the hash function, as accepted by HashByName.
	HashName string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Mode:     "phylogenetics",
	HashName: DefaultHashName,
}

// NewParamsFromOpts validates opts and builds the matching Params. Unlike
// NewParams, an unknown mode is an error.
func NewParamsFromOpts(opts Opts) (*Params, error) {
	mode, err := ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	hash, err := HashByName(opts.HashName)
	if err != nil {
		return nil, err
	}
	return NewParamsWithHash(mode, hash), nil
}
