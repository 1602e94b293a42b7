// Package fastq scans FASTQ read data so that read sets can be sketched.
package fastq

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
)

const maxLineSize = 1024 * 1024 // 1 MB

// PhredOffset is the quality offset of Sanger (Illumina 1.8+) FASTQ.
const PhredOffset = 33

// A Read is a FASTQ record. The slices are owned by the Scanner and are
// overwritten by the next call to Scan.
type Read struct {
	// ID is line 1 without the leading '@'.
	ID   []byte
	Seq  []byte
	Qual []byte
}

// Name returns the ID up to the first space.
func (r *Read) Name() string {
	for i, c := range r.ID {
		if c == ' ' || c == '\t' {
			return string(r.ID[:i])
		}
	}
	return string(r.ID)
}

// Mask replaces by 'N' every base whose phred quality is below minQual, so
// that k-mer hashing skips it. It returns the number of masked bases.
func (r *Read) Mask(minQual int) int {
	n := 0
	for i, q := range r.Qual {
		if int(q)-PhredOffset < minQual && r.Seq[i] != 'N' {
			r.Seq[i] = 'N'
			n++
		}
	}
	return n
}

// Scanner reads FASTQ records. It requires ID lines to begin with '@', line
// 3 to begin with '+', and the sequence and quality lines to have the same
// length. Scanners are not thread safe.
type Scanner struct {
	b    *bufio.Scanner
	line int
	err  error
	done bool
	read Read
}

// NewScanner constructs a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{b: bufio.NewScanner(r)}
	s.b.Buffer(nil, maxLineSize)
	return s
}

// Scan reads the next record into read. Scan returns false at the end of
// the input or on error; once it returns false it never returns true
// again. Check Err afterwards.
func (s *Scanner) Scan(read *Read) bool {
	if s.done {
		return false
	}
	if !s.b.Scan() {
		s.done = true
		s.err = s.b.Err()
		return false
	}
	s.line++
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		return s.fail("ID line must start with '@'")
	}
	s.read.ID = append(s.read.ID[:0], id[1:]...)
	if !s.next() {
		return false
	}
	s.read.Seq = append(s.read.Seq[:0], s.b.Bytes()...)
	if !s.next() {
		return false
	}
	if plus := s.b.Bytes(); len(plus) == 0 || plus[0] != '+' {
		return s.fail("separator line must start with '+'")
	}
	if !s.next() {
		return false
	}
	s.read.Qual = append(s.read.Qual[:0], s.b.Bytes()...)
	if len(s.read.Qual) != len(s.read.Seq) {
		return s.fail(fmt.Sprintf("quality length %d differs from sequence length %d", len(s.read.Qual), len(s.read.Seq)))
	}
	*read = s.read
	return true
}

func (s *Scanner) next() bool {
	if !s.b.Scan() {
		if err := s.b.Err(); err != nil {
			s.done, s.err = true, err
			return false
		}
		return s.fail("truncated record")
	}
	s.line++
	return true
}

func (s *Scanner) fail(msg string) bool {
	s.done = true
	s.err = errors.E(errors.Invalid, fmt.Sprintf("fastq: line %d: %s", s.line, msg))
	return false
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error { return s.err }
