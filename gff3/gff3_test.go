package gff3_test

import (
	"math"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/leomrtns/biomcmc-lib/gff3"
	"github.com/stretchr/testify/require"
)

const annotation = `##gff-version 3
##sequence-region ctg1 1 20
##sequence-region ctg2 1 12
# a comment
ctg1	prokka	gene	2	7	.	+	.	ID=gene1
ctg1	prokka	CDS	2	7	0.5	+	0	ID=cds1;Parent=gene1
ctg2	prokka	gene	3	8	.	-	.	ID=gene2;Name=abc%2Cdef
ctg2	prokka	CDS	3	8	.	-	0	ID=cds2;Parent=gene2,gene2b
ctg1	prokka	repeat_region	15	25	.	?	.	.
ctg1	prokka	CDS	10	12	.	+	x	ID=bad
ctg1	prokka	CDS	12	10	.	+	0	ID=reversed
too	few	columns
`

const sequences = `##FASTA
>ctg1 description
ACGTACGTAC
GTACGTACGT
>ctg2
aaccggttacgt
>extra
ACGT
`

func TestRead(t *testing.T) {
	f, err := gff3.Read(strings.NewReader(annotation + sequences))
	assert.NoError(t, err)
	expect.EQ(t, f.Regions, []gff3.Region{{SeqID: "ctg1", Start: 0, End: 19}, {SeqID: "ctg2", Start: 0, End: 11}})
	expect.EQ(t, f.Len(), 5)
	expect.EQ(t, f.SeqIDs(), []string{"ctg1", "ctg2"})

	var order []string
	for _, feat := range f.Features() {
		order = append(order, feat.SeqID+"/"+feat.Type)
	}
	expect.EQ(t, order, []string{"ctg1/CDS", "ctg1/gene", "ctg1/repeat_region", "ctg2/CDS", "ctg2/gene"})

	genes := f.Genes()
	require.Len(t, genes, 2)
	g := genes[0]
	expect.EQ(t, g.ID, "gene1")
	expect.EQ(t, g.Start, 1)
	expect.EQ(t, g.End, 6)
	expect.EQ(t, g.Len(), 6)
	expect.EQ(t, g.Strand, gff3.Plus)
	expect.EQ(t, g.Phase, -1)
	expect.True(t, math.IsNaN(g.Score))
	expect.EQ(t, genes[1].Attributes["Name"], "abc,def")

	cds := f.CDS()
	require.Len(t, cds, 2)
	expect.EQ(t, cds[0].Score, 0.5)
	expect.EQ(t, cds[0].Phase, 0)
	expect.EQ(t, cds[0].Parent, []string{"gene1"})
	expect.EQ(t, cds[1].Parent, []string{"gene2", "gene2b"})
	expect.EQ(t, cds[1].Strand, gff3.Minus)
	expect.EQ(t, f.OfType("Repeat_Region")[0].Strand, gff3.Unknown)

	expect.True(t, f.HasSequences())
	s, ok := f.Sequence("ctg2")
	expect.True(t, ok)
	expect.EQ(t, s, "AACCGGTTACGT")
	_, ok = f.Sequence("extra")
	expect.False(t, ok)

	seq, err := f.FeatureSequence(genes[0])
	assert.NoError(t, err)
	expect.EQ(t, seq, "CGTACG")
	seq, err = f.FeatureSequence(genes[1])
	assert.NoError(t, err)
	expect.EQ(t, seq, "AACCGG")
	_, err = f.FeatureSequence(f.OfType("repeat_region")[0])
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestReadFastaWithoutPragma(t *testing.T) {
	f, err := gff3.Read(strings.NewReader(annotation + strings.TrimPrefix(sequences, "##FASTA\n")))
	assert.NoError(t, err)
	expect.True(t, f.HasSequences())
	s, ok := f.Sequence("ctg1")
	expect.True(t, ok)
	expect.EQ(t, len(s), 20)
}

func TestReadIncompleteFasta(t *testing.T) {
	f, err := gff3.Read(strings.NewReader(annotation + "##FASTA\n>ctg1\nACGTACGTACGTACGTACGT\n"))
	assert.NoError(t, err)
	expect.False(t, f.HasSequences())
	_, ok := f.Sequence("ctg1")
	expect.False(t, ok)
	_, err = f.FeatureSequence(f.Genes()[0])
	expect.True(t, errors.Is(errors.NotExist, err))

	f, err = gff3.Read(strings.NewReader(annotation))
	assert.NoError(t, err)
	expect.False(t, f.HasSequences())
	expect.EQ(t, f.Len(), 5)
}

func TestReadErrors(t *testing.T) {
	for _, data := range []string{
		"",
		"# only comments\n",
		"ctg1\tprokka\tgene\t2\t7\t.\t+\t.\tID=gene1\n##gff-version 3\n",
	} {
		_, err := gff3.Read(strings.NewReader(data))
		expect.True(t, errors.Is(errors.Invalid, err), "data %q: %v", data, err)
	}
	_, err := gff3.Read(strings.NewReader("##gff-version 3\n##FASTA\nACGT\n"))
	expect.True(t, errors.Is(errors.Invalid, err))

	f, err := gff3.Read(strings.NewReader("##GFF-VERSION 3.1.26\n"))
	assert.NoError(t, err)
	expect.EQ(t, f.Len(), 0)
	expect.EQ(t, len(f.SeqIDs()), 0)
}

func TestFastaPragmaToken(t *testing.T) {
	// "##fastaX" is an unknown pragma, so the feature after it is still read.
	f, err := gff3.Read(strings.NewReader("##gff-version 3\n##fastaX\nctg1\tprokka\tgene\t2\t7\t.\t+\t.\tID=gene1\n"))
	assert.NoError(t, err)
	expect.EQ(t, f.Len(), 1)
	expect.False(t, f.HasSequences())

	// A FASTA section without features attaches no sequences.
	f, err = gff3.Read(strings.NewReader("##gff-version 3\n" + sequences))
	assert.NoError(t, err)
	expect.EQ(t, f.Len(), 0)
	expect.False(t, f.HasSequences())
	_, ok := f.Sequence("ctg1")
	expect.False(t, ok)
}
