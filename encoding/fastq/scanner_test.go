package fastq_test

import (
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/leomrtns/biomcmc-lib/encoding/fastq"
)

const fq = `@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG
ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E
@NB500956:89:HW2FHBGX2:1:11101:13871:1070 1:N:0:ATCACG
CTCAACTCTGAGNCAGACAGAAATACNTTTNNTNTGAGTTACANCNTTCTTTTTCNACATATNCNNNNNTNGNNNT
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEEEE#A#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:9975:1070 1:N:0:ATCACG
GAGTAACCACGTNCCCATGGCCACAGNTGANNGNGTCACACCTNANCCGGGAGAGNCAATCCNGNNNNNGNANNNC
+
AAAAAEEEEEEE#EEEEEEEEEAEEE#EEA##E#EEEEEEEE<#E#<EEEEEEEE#<EEEA/#/#####A#E###A
`

func TestScan(t *testing.T) {
	s := fastq.NewScanner(strings.NewReader(fq))
	var r fastq.Read
	expect.True(t, s.Scan(&r))
	expect.EQ(t, string(r.ID), "NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG")
	expect.EQ(t, r.Name(), "NB500956:89:HW2FHBGX2:1:11101:25648:1069")
	expect.EQ(t, string(r.Seq), "ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC")
	expect.EQ(t, string(r.Qual), "AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E")
	n := 1
	for s.Scan(&r) {
		n++
	}
	expect.EQ(t, n, 3)
	expect.NoError(t, s.Err())
	expect.False(t, s.Scan(&r))
}

func TestMask(t *testing.T) {
	// '#' is phred 2, 'A' is 32, 'E' is 36.
	r := fastq.Read{Seq: []byte("ACGTN"), Qual: []byte("A#E#E")}
	expect.EQ(t, r.Mask(20), 2)
	expect.EQ(t, string(r.Seq), "ANGNN")
	expect.EQ(t, r.Mask(20), 0)
	expect.EQ(t, r.Mask(35), 1)
	expect.EQ(t, string(r.Seq), "NNGNN")
}

func TestBadFASTQ(t *testing.T) {
	for _, data := range []string{
		"12312#",
		"@1234\nACGT",
		"@1234\nACGT\n-\nAAAA\n",
		"@1234\nACGT\n+\nAAA\n",
	} {
		s := fastq.NewScanner(strings.NewReader(data))
		var r fastq.Read
		for s.Scan(&r) {
		}
		expect.True(t, errors.Is(errors.Invalid, s.Err()), "data %q: %v", data, s.Err())
	}
}
