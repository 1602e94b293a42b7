package fasta_test

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/leomrtns/biomcmc-lib/encoding/fasta"
)

var fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "acgt\n" + "AC GT\r\n"

func TestGet(t *testing.T) {
	tests := []struct {
		seq   string
		start uint64
		end   uint64
		want  string
		err   bool
	}{
		{"seq1", 1, 2, "C", false},
		{"seq1", 1, 6, "CGTAC", false},
		{"seq1", 0, 12, "ACGTACGTACGT", false},
		{"seq1", 10, 12, "GT", false},
		{"seq2", 0, 8, "ACGTACGT", false},
		{"seq2", 2, 5, "GTA", false},
		{"seq0", 0, 1, "", true},
		{"seq1", 10, 13, "", true},
		{"seq1", 4, 3, "", true},
	}
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	for _, tt := range tests {
		got, err := f.Get(tt.seq, tt.start, tt.end)
		if (err == nil && tt.err) || (err != nil && !tt.err) {
			t.Errorf("%s[%d,%d): unexpected error: %v", tt.seq, tt.start, tt.end, err)
		}
		if got != tt.want {
			t.Errorf("unexpected sequence: want %s, got %s", tt.want, got)
		}
	}
}

func TestLengthAndSeq(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	n, err := f.Len("seq1")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(12))
	n, err = f.Len("seq2")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(8))
	_, err = f.Len("seq0")
	expect.NotNil(t, err)

	s, err := f.Seq("seq2")
	assert.NoError(t, err)
	expect.EQ(t, s, "ACGTACGT")
	_, err = f.Seq("seq3")
	expect.NotNil(t, err)
}

func TestSeqNames(t *testing.T) {
	f, err := fasta.New(strings.NewReader(fastaData))
	assert.NoError(t, err)
	expect.EQ(t, f.SeqNames(), []string{"seq1", "seq2"})

	empty, err := fasta.New(strings.NewReader(""))
	assert.NoError(t, err)
	expect.EQ(t, len(empty.SeqNames()), 0)

	// A named but empty record is still a sequence.
	f, err = fasta.New(strings.NewReader(">a\n>b\nAC\n"))
	assert.NoError(t, err)
	expect.EQ(t, f.SeqNames(), []string{"a", "b"})
	n, err := f.Len("a")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(0))
}

func TestMalformed(t *testing.T) {
	for _, data := range []string{
		"ACGT\n>seq1\nACGT\n",
		">\nACGT\n",
		">seq1\nAC\n>seq1\nGT\n",
	} {
		_, err := fasta.New(strings.NewReader(data))
		expect.NotNil(t, err, "data %q", data)
	}
}
