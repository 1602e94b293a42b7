package sketch

import (
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/leomrtns/biomcmc-lib/encoding/fasta"
	"github.com/leomrtns/biomcmc-lib/encoding/fastq"
	"github.com/leomrtns/biomcmc-lib/kmerhash"
)

// Build creates one sketch per sequence. Sequences are split into
// opts.Parallelism contiguous jobs; every job runs its own
// kmerhash.Iterator over the shared p.
func Build(ctx context.Context, p *kmerhash.Params, seqs [][]byte, opts Opts) ([]*Sketch, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	sketches := make([]*Sketch, len(seqs))
	if len(seqs) == 0 {
		return sketches, nil
	}
	parallelism := opts.parallelism()
	if parallelism > len(seqs) {
		parallelism = len(seqs)
	}
	log.Debug.Printf("sketch.Build: %d sequences, %d jobs, mode %v", len(seqs), parallelism, p.Mode)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(seqs)) / parallelism
		endIdx := ((jobIdx + 1) * len(seqs)) / parallelism
		it := kmerhash.New(p)
		for i := startIdx; i < endIdx; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := newSketch(p, opts, it)
			s.Add(seqs[i])
			s.it = nil
			sketches[i] = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sketches, nil
}

// FromFasta sketches every sequence of f, in the order of f.SeqNames().
func FromFasta(ctx context.Context, p *kmerhash.Params, f fasta.Fasta, opts Opts) ([]*Sketch, error) {
	names := f.SeqNames()
	seqs := make([][]byte, len(names))
	for i, name := range names {
		seq, err := f.Seq(name)
		if err != nil {
			return nil, errors.E(errors.NotExist, "sketch.FromFasta: "+name, err)
		}
		seqs[i] = []byte(seq)
	}
	return Build(ctx, p, seqs, opts)
}

// AddFastq adds every read of a FASTQ stream to s, each read on its own.
// Bases with a phred quality below minQual are replaced by 'N' first. It
// returns the number of reads.
func (s *Sketch) AddFastq(r io.Reader, minQual int) (int, error) {
	var (
		sc     = fastq.NewScanner(r)
		read   fastq.Read
		n      int
		masked int
	)
	for sc.Scan(&read) {
		if minQual > 0 {
			masked += read.Mask(minQual)
		}
		s.Add(read.Seq)
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	log.Debug.Printf("sketch.AddFastq: %d reads, %d bases masked below quality %d", n, masked, minQual)
	return n, nil
}

// WriteDistances writes one TSV line per pair of sketches and window length,
// with columns "name1 name2 kmer_size jaccard". names[i] labels sketches[i].
func WriteDistances(w io.Writer, names []string, sketches []*Sketch) (err error) {
	if len(names) != len(sketches) {
		return errors.E(errors.Invalid, "sketch.WriteDistances: "+
			strconv.Itoa(len(names))+" names for "+strconv.Itoa(len(sketches))+" sketches")
	}
	out := tsv.NewWriter(w)
	out.WriteString("name1")
	out.WriteString("name2")
	out.WriteString("kmer_size")
	out.WriteString("jaccard")
	if err = out.EndLine(); err != nil {
		return
	}
	for i := range sketches {
		for j := i + 1; j < len(sketches); j++ {
			var jac []float64
			if jac, err = Jaccard(sketches[i], sketches[j]); err != nil {
				return
			}
			sizes := sketches[i].p.Sizes()
			for k, v := range jac {
				out.WriteString(names[i])
				out.WriteString(names[j])
				out.WriteUint32(uint32(sizes[k]))
				out.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
				if err = out.EndLine(); err != nil {
					return
				}
			}
		}
	}
	return out.Flush()
}
