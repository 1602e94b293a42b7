// Package sketch summarizes DNA sequences by their canonical k-mer hashes.
//
// A Sketch keeps, for every window length of a kmerhash.Params, the Size
// smallest distinct canonical hashes (a bottom-k MinHash sketch) and a Bloom
// filter holding every hash seen. Bottom-k sets estimate the Jaccard
// similarity between two sequences; the filters answer containment queries.
package sketch

import (
	"fmt"
	"runtime"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/greatroar/blobloom"
	"github.com/leomrtns/biomcmc-lib/kmerhash"
)

// Opts controls the size of a Sketch.
type Opts struct {
	// Size is the number of hashes kept per window length.
	Size int
	// FPRate is the target false-positive rate of each Bloom filter.
	FPRate float64
	// Capacity is the expected number of distinct k-mers per window length.
	Capacity uint64
	// Parallelism is the number of goroutines used by Build. Zero means
	// runtime.NumCPU().
	Parallelism int
}

// DefaultOpts is the default value of Opts.
var DefaultOpts = Opts{
	Size:     1000,
	FPRate:   0.01,
	Capacity: 1 << 20,
}

func (o Opts) validate() error {
	if o.Size <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("sketch: size must be positive, got %d", o.Size))
	}
	if !(o.FPRate > 0 && o.FPRate < 1) {
		return errors.E(errors.Invalid, fmt.Sprintf("sketch: false-positive rate must be in (0,1), got %v", o.FPRate))
	}
	if o.Capacity == 0 {
		return errors.E(errors.Invalid, "sketch: capacity must be positive")
	}
	if o.Parallelism < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("sketch: negative parallelism %d", o.Parallelism))
	}
	return nil
}

func (o Opts) parallelism() int {
	if o.Parallelism == 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}

// hashKey is a hash stored in a bottom-k tree.
type hashKey uint64

// Compare implements llrb.Comparable.
func (k hashKey) Compare(c llrb.Comparable) int {
	k2 := c.(hashKey)
	switch {
	case k < k2:
		return -1
	case k > k2:
		return 1
	}
	return 0
}

// bottomK holds the k smallest distinct values inserted into it.
type bottomK struct {
	k    int
	tree llrb.Tree
}

func (b *bottomK) insert(h uint64) {
	if b.tree.Len() >= b.k {
		if top := b.tree.Max().(hashKey); uint64(top) <= h {
			return
		}
	}
	if b.tree.Get(hashKey(h)) != nil {
		return
	}
	b.tree.Insert(hashKey(h))
	if b.tree.Len() > b.k {
		b.tree.DeleteMax()
	}
}

// values returns the kept hashes in increasing order.
func (b *bottomK) values() []uint64 {
	v := make([]uint64, 0, b.tree.Len())
	b.tree.Do(func(c llrb.Comparable) bool {
		v = append(v, uint64(c.(hashKey)))
		return false
	})
	return v
}

// Sketch holds the bottom-k hashes and the Bloom filter of one or more
// sequences. A Sketch is not thread safe.
type Sketch struct {
	p       *kmerhash.Params
	opts    Opts
	it      *kmerhash.Iterator
	mins    []bottomK
	filters []*blobloom.Filter
	nKmers  []int
}

// New creates an empty sketch over the windows of p. It panics if opts is
// invalid; Build and FromFasta report the same problem as an error.
func New(p *kmerhash.Params, opts Opts) *Sketch {
	if err := opts.validate(); err != nil {
		log.Panicf("sketch.New: %v", err)
	}
	return newSketch(p, opts, kmerhash.New(p))
}

func newSketch(p *kmerhash.Params, opts Opts, it *kmerhash.Iterator) *Sketch {
	n := p.NumWindows()
	s := &Sketch{
		p:       p,
		opts:    opts,
		it:      it,
		mins:    make([]bottomK, n),
		filters: make([]*blobloom.Filter, n),
		nKmers:  make([]int, n),
	}
	for i := range s.mins {
		s.mins[i].k = opts.Size
		s.filters[i] = blobloom.NewOptimized(blobloom.Config{
			Capacity: opts.Capacity,
			FPRate:   opts.FPRate,
		})
	}
	return s
}

// Add inserts every canonical k-mer hash of seq.
func (s *Sketch) Add(seq []byte) {
	if s.it == nil {
		s.it = kmerhash.New(s.p)
	}
	it := s.it
	it.Reset(seq)
	for it.Scan() {
		for i := 0; i < it.NumHashes(); i++ {
			if !it.Filled(i) {
				break
			}
			h := it.Hash(i)
			s.mins[i].insert(h)
			s.filters[i].Add(h)
			s.nKmers[i]++
		}
	}
	if log.At(log.Debug) {
		log.Debug.Printf("sketch: added %d symbols (%d absorbed), %v k-mers per window",
			it.Pos(), it.Absorbed(), s.nKmers)
	}
}

// Params returns the window configuration of s.
func (s *Sketch) Params() *kmerhash.Params { return s.p }

// NumKmers returns the number of k-mers added to window i, counting
// repeats.
func (s *Sketch) NumKmers(i int) int { return s.nKmers[i] }

// Mins returns the smallest distinct hashes of window i, in increasing
// order.
func (s *Sketch) Mins(i int) []uint64 { return s.mins[i].values() }

// compatible checks that a and b hash the same windows with the same
// bottom-k size.
func compatible(a, b *Sketch) error {
	if a.opts.Size != b.opts.Size {
		return errors.E(errors.Invalid, fmt.Sprintf("sketch: sizes differ: %d vs %d", a.opts.Size, b.opts.Size))
	}
	if a.p.Mode != b.p.Mode || a.p.NumWindows() != b.p.NumWindows() {
		return errors.E(errors.Invalid, fmt.Sprintf("sketch: modes differ: %v vs %v", a.p.Mode, b.p.Mode))
	}
	for i := 0; i < a.p.NumWindows(); i++ {
		wa, wb := a.p.Window(i), b.p.Window(i)
		if wa.Size != wb.Size || wa.Seed != wb.Seed {
			return errors.E(errors.Invalid, fmt.Sprintf("sketch: window %d differs", i))
		}
	}
	return nil
}

// Jaccard estimates, per window length, the Jaccard similarity of the k-mer
// sets of a and b from their bottom-k hashes. Sketches built with different
// window configurations or sizes cannot be compared.
func Jaccard(a, b *Sketch) ([]float64, error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	j := make([]float64, a.p.NumWindows())
	for i := range j {
		j[i] = jaccard(a.mins[i].values(), b.mins[i].values(), a.opts.Size)
	}
	return j, nil
}

// jaccard merges two sorted bottom-k lists and counts the shared values
// among the k smallest of their union.
func jaccard(x, y []uint64, k int) float64 {
	var n, shared int
	for n < k && (len(x) > 0 || len(y) > 0) {
		switch {
		case len(y) == 0 || (len(x) > 0 && x[0] < y[0]):
			x = x[1:]
		case len(x) == 0 || y[0] < x[0]:
			y = y[1:]
		default:
			shared++
			x, y = x[1:], y[1:]
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(shared) / float64(n)
}

// Containment returns, per window length, the fraction of the canonical
// k-mers of seq that the Bloom filters of s report as present. Windows that
// seq is too short to fill report zero.
func (s *Sketch) Containment(seq []byte) []float64 {
	var (
		it    = kmerhash.New(s.p)
		hits  = make([]int, s.p.NumWindows())
		total = make([]int, s.p.NumWindows())
	)
	it.Reset(seq)
	for it.Scan() {
		for i := 0; i < it.NumHashes(); i++ {
			if !it.Filled(i) {
				break
			}
			total[i]++
			if s.filters[i].Has(it.Hash(i)) {
				hits[i]++
			}
		}
	}
	c := make([]float64, len(hits))
	for i := range c {
		if total[i] > 0 {
			c[i] = float64(hits[i]) / float64(total[i])
		}
	}
	return c
}

// Merge adds the hashes of other to s. Both must share a configuration.
func (s *Sketch) Merge(other *Sketch) error {
	if err := compatible(s, other); err != nil {
		return err
	}
	if s.opts.Capacity != other.opts.Capacity || s.opts.FPRate != other.opts.FPRate {
		return errors.E(errors.Invalid, "sketch: bloom filter configurations differ")
	}
	for i := range s.mins {
		for _, h := range other.mins[i].values() {
			s.mins[i].insert(h)
		}
		s.filters[i].Union(other.filters[i])
		s.nKmers[i] += other.nKmers[i]
	}
	return nil
}
