// Package gff3 reads genome annotations in the GFF3 format
// (https://github.com/The-Sequence-Ontology/Specifications/blob/master/gff3.md),
// including the optional trailing FASTA section with the annotated
// sequences.
//
// Coordinates are converted from the 1-based closed intervals of the file to
// 0-based closed intervals: a feature covers seq[Start:End+1].
package gff3

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/leomrtns/biomcmc-lib/dna"
	"github.com/leomrtns/biomcmc-lib/encoding/fasta"
)

const maxLineSize = 1024 * 1024 * 300 // 300 MB

// Strand is the strand of a feature relative to its landmark.
type Strand int8

const (
	// Unknown covers both "." (not stranded) and "?" (unknown).
	Unknown Strand = iota
	Plus
	Minus
)

func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	}
	return "."
}

// Feature is one annotation line.
type Feature struct {
	SeqID  string
	Source string
	Type   string
	// Start and End are 0-based and inclusive.
	Start, End int
	// Score is NaN when the file has ".".
	Score  float64
	Strand Strand
	// Phase is 0, 1 or 2 for CDS features, -1 when the file has ".".
	Phase int
	// ID and Parent are taken from the attributes column. A feature may
	// have several parents.
	ID     string
	Parent []string
	// Attributes holds every attribute, unescaped, including ID and Parent.
	Attributes map[string]string

	line int // order of appearance, for ties
}

// Len is the number of bases covered by f.
func (f *Feature) Len() int { return f.End - f.Start + 1 }

// Compare orders features by seqid, type, start, end, then file order.
func (f *Feature) Compare(c llrb.Comparable) int {
	f2 := c.(*Feature)
	if d := strings.Compare(f.SeqID, f2.SeqID); d != 0 {
		return d
	}
	if d := strings.Compare(f.Type, f2.Type); d != 0 {
		return d
	}
	if d := f.Start - f2.Start; d != 0 {
		return d
	}
	if d := f.End - f2.End; d != 0 {
		return d
	}
	return f.line - f2.line
}

// Region is a "##sequence-region" pragma, converted to 0-based inclusive
// coordinates.
type Region struct {
	SeqID      string
	Start, End int
}

// File is the content of a GFF3 file.
type File struct {
	// Regions lists the sequence-region pragmas in file order.
	Regions []Region

	features llrb.Tree
	seqs     map[string]string
}

// parseFeature parses a 9-column line. It returns nil if the line is not a
// valid feature.
func parseFeature(line string, lineno int) *Feature {
	cols := strings.Split(line, "\t")
	if len(cols) != 9 {
		return nil
	}
	f := &Feature{
		SeqID:  cols[0],
		Source: cols[1],
		Type:   cols[2],
		line:   lineno,
	}
	var err error
	if f.Start, err = strconv.Atoi(cols[3]); err != nil || f.Start < 1 {
		return nil
	}
	if f.End, err = strconv.Atoi(cols[4]); err != nil || f.End < f.Start {
		return nil
	}
	f.Start--
	f.End--
	if cols[5] == "." {
		f.Score = math.NaN()
	} else if f.Score, err = strconv.ParseFloat(cols[5], 64); err != nil {
		return nil
	}
	switch cols[6] {
	case "+":
		f.Strand = Plus
	case "-":
		f.Strand = Minus
	}
	if cols[7] == "." {
		f.Phase = -1
	} else if f.Phase, err = strconv.Atoi(cols[7]); err != nil || f.Phase < 0 || f.Phase > 2 {
		return nil
	}
	f.Attributes = parseAttributes(cols[8])
	f.ID = f.Attributes["ID"]
	if p := f.Attributes["Parent"]; p != "" {
		f.Parent = strings.Split(p, ",")
	}
	return f
}

func parseAttributes(col string) map[string]string {
	attrs := map[string]string{}
	if col == "." {
		return attrs
	}
	for _, kv := range strings.Split(col, ";") {
		kv = strings.TrimSpace(kv)
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			continue
		}
		val := kv[eq+1:]
		if v, err := url.PathUnescape(val); err == nil {
			val = v
		}
		attrs[kv[:eq]] = val
	}
	return attrs
}

func isPragma(line, name string) bool {
	if len(line) < len(name) || !strings.EqualFold(line[:len(name)], name) {
		return false
	}
	return len(line) == len(name) || line[len(name)] == ' ' || line[len(name)] == '\t'
}

// Read parses a GFF3 file. The "##gff-version" pragma must come before any
// feature. Lines that are not valid 9-column features are skipped. A
// "##FASTA" pragma, or the first line starting with '>', begins the FASTA
// section; its sequences are kept only if it names every seqid used by a
// feature.
func Read(r io.Reader) (*File, error) {
	var (
		file       = &File{}
		scanner    = bufio.NewScanner(r)
		lineno     int
		versioned  bool
		inFasta    bool
		fastaLines strings.Builder
		nSkipped   int
	)
	scanner.Buffer(nil, maxLineSize)
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if inFasta {
			fastaLines.WriteString(line)
			fastaLines.WriteByte('\n')
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if !versioned {
			if isPragma(line, "##gff-version") {
				versioned = true
				continue
			}
			if line[0] == '#' {
				continue
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("gff3: line %d: missing ##gff-version pragma", lineno))
		}
		switch {
		case isPragma(line, "##sequence-region"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				nSkipped++
				continue
			}
			reg := Region{SeqID: fields[1], Start: -1, End: -1}
			if len(fields) >= 4 {
				if s, err := strconv.Atoi(fields[2]); err == nil {
					reg.Start = s - 1
				}
				if e, err := strconv.Atoi(fields[3]); err == nil {
					reg.End = e - 1
				}
			}
			file.Regions = append(file.Regions, reg)
		case isPragma(line, "##fasta"):
			inFasta = true
		case line[0] == '>':
			inFasta = true
			fastaLines.WriteString(line)
			fastaLines.WriteByte('\n')
		case line[0] == '#':
		default:
			f := parseFeature(line, lineno)
			if f == nil {
				if log.At(log.Debug) {
					log.Debug.Printf("gff3: skipping line %d: %q", lineno, line)
				}
				nSkipped++
				continue
			}
			file.features.Insert(f)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E("gff3: reading", err)
	}
	if !versioned {
		return nil, errors.E(errors.Invalid, "gff3: missing ##gff-version pragma")
	}
	if nSkipped > 0 {
		log.Printf("gff3: skipped %d malformed lines", nSkipped)
	}
	if inFasta {
		fa, err := fasta.New(strings.NewReader(fastaLines.String()))
		if err != nil {
			return nil, errors.E(errors.Invalid, "gff3: FASTA section", err)
		}
		file.attachSequences(fa)
	}
	return file, nil
}

// attachSequences keeps the sequences of fa named by feature seqids, or
// none of them if any seqid is missing.
func (file *File) attachSequences(fa fasta.Fasta) {
	if file.Len() == 0 {
		return
	}
	seqs := map[string]string{}
	for _, id := range file.SeqIDs() {
		s, err := fa.Seq(id)
		if err != nil {
			log.Printf("gff3: incomplete FASTA section, no sequence for %s; ignoring DNA sequences", id)
			return
		}
		seqs[id] = s
	}
	if extra := len(fa.SeqNames()) - len(seqs); extra > 0 {
		log.Debug.Printf("gff3: dropping %d FASTA sequences without features", extra)
	}
	file.seqs = seqs
}

// Len is the number of features.
func (file *File) Len() int { return file.features.Len() }

// Features returns every feature, ordered by seqid, type, start and end.
func (file *File) Features() []*Feature {
	return file.filter(func(*Feature) bool { return true })
}

func (file *File) filter(keep func(*Feature) bool) []*Feature {
	var out []*Feature
	file.features.Do(func(c llrb.Comparable) bool {
		if f := c.(*Feature); keep(f) {
			out = append(out, f)
		}
		return false
	})
	return out
}

// OfType returns the features whose type matches typ, ignoring case.
func (file *File) OfType(typ string) []*Feature {
	return file.filter(func(f *Feature) bool { return strings.EqualFold(f.Type, typ) })
}

// CDS returns the coding sequence features.
func (file *File) CDS() []*Feature { return file.OfType("cds") }

// Genes returns the gene features.
func (file *File) Genes() []*Feature { return file.OfType("gene") }

// SeqIDs returns the distinct seqids of the features, sorted.
func (file *File) SeqIDs() []string {
	var ids []string
	file.features.Do(func(c llrb.Comparable) bool {
		if id := c.(*Feature).SeqID; len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
		return false
	})
	return ids
}

// HasSequences reports whether the file carried a usable FASTA section.
func (file *File) HasSequences() bool { return file.seqs != nil }

// Sequence returns the DNA sequence of seqid, upper-cased.
func (file *File) Sequence(seqid string) (string, bool) {
	s, ok := file.seqs[seqid]
	return s, ok
}

// FeatureSequence returns the bases covered by f, reverse complemented for
// features on the minus strand.
func (file *File) FeatureSequence(f *Feature) (string, error) {
	s, ok := file.seqs[f.SeqID]
	if !ok {
		return "", errors.E(errors.NotExist, "gff3: no sequence for "+f.SeqID)
	}
	if f.End >= len(s) {
		return "", errors.E(errors.Invalid, fmt.Sprintf("gff3: feature %s:%d-%d past the end of the sequence (%d)",
			f.SeqID, f.Start+1, f.End+1, len(s)))
	}
	sub := s[f.Start : f.End+1]
	if f.Strand == Minus {
		return dna.ReverseComplementString(sub), nil
	}
	return sub, nil
}
