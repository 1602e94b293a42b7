package dna_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/leomrtns/biomcmc-lib/dna"
)

func TestComplement(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{'A', 'T'}, {'T', 'A'}, {'C', 'G'}, {'G', 'C'},
		{'a', 't'}, {'g', 'c'}, {'U', 'A'}, {'u', 'a'},
		{'R', 'Y'}, {'y', 'r'}, {'K', 'M'}, {'B', 'V'},
		{'D', 'H'}, {'S', 'S'}, {'W', 'W'}, {'N', 'N'},
		{'-', '-'}, {'?', '?'}, {'Z', 'N'}, {0, 'N'},
	}
	for _, test := range tests {
		expect.EQ(t, dna.Complement(test.in), test.want, "complement of %q", test.in)
	}
}

func TestReverseComplement(t *testing.T) {
	expect.EQ(t, dna.ReverseComplementString("ACGTTN"), "NAACGT")
	expect.EQ(t, dna.ReverseComplementString("aacRY-"), "-RYgtt")
	expect.EQ(t, dna.ReverseComplementString(""), "")
}

func TestReverseComplementInplace(t *testing.T) {
	const alphabet = "ACGTNRYKMBDHVSWacgtn-"
	for iter := 0; iter < 100; iter++ {
		n := rand.Intn(50)
		src := make([]byte, n)
		for i := range src {
			src[i] = alphabet[rand.Intn(len(alphabet))]
		}
		dst := make([]byte, n)
		dna.ReverseComplement(dst, src)
		inplace := append([]byte(nil), src...)
		dna.ReverseComplementInplace(inplace)
		expect.EQ(t, string(inplace), string(dst))
		dna.ReverseComplementInplace(inplace)
		expect.EQ(t, string(inplace), string(src))
	}
}

func TestIsPalindrome(t *testing.T) {
	expect.True(t, dna.IsPalindrome([]byte("ACGT")))
	expect.True(t, dna.IsPalindrome([]byte("GAATTC")))
	expect.True(t, dna.IsPalindrome([]byte("")))
	expect.False(t, dna.IsPalindrome([]byte("ACGA")))
	// An odd-length sequence can only be a palindrome around a
	// self-complementary symbol.
	expect.True(t, dna.IsPalindrome([]byte("AST")))
	expect.False(t, dna.IsPalindrome([]byte("AGT")))
}
