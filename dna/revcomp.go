// Package dna contains helpers for ASCII nucleotide sequences that carry
// IUPAC ambiguity codes.
package dna

import "github.com/grailbio/base/log"

// complementTable maps each IUPAC symbol to its complement, preserving case.
// Gap symbols map to themselves and every other byte maps to 'N'.
var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	pairs := []struct{ a, b byte }{
		{'A', 'T'}, {'C', 'G'}, {'R', 'Y'}, {'K', 'M'},
		{'B', 'V'}, {'D', 'H'}, {'S', 'S'}, {'W', 'W'},
		{'N', 'N'}, {'X', 'X'}, {'O', 'O'},
	}
	for _, p := range pairs {
		complementTable[p.a], complementTable[p.b] = p.b, p.a
		complementTable[p.a|0x20], complementTable[p.b|0x20] = p.b|0x20, p.a|0x20
	}
	complementTable['U'] = 'A'
	complementTable['u'] = 'a'
	complementTable['-'] = '-'
	complementTable['.'] = '.'
	complementTable['?'] = '?'
}

// Complement returns the complement of one ASCII symbol. Symbols outside the
// IUPAC alphabet become 'N'.
func Complement(b byte) byte { return complementTable[b] }

// ReverseComplement writes the reverse complement of src to dst.
//
// It panics if len(dst) != len(src).
func ReverseComplement(dst, src []byte) {
	n := len(src)
	if len(dst) != n {
		log.Panicf("dna.ReverseComplement: len(dst) = %d, len(src) = %d", len(dst), n)
	}
	for idx, invIdx := 0, n-1; idx != n; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = complementTable[src[invIdx]]
	}
}

// ReverseComplementInplace reverse-complements seq in place.
func ReverseComplementInplace(seq []byte) {
	n := len(seq)
	half := n >> 1
	for idx, invIdx := 0, n-1; idx != half; idx, invIdx = idx+1, invIdx-1 {
		seq[idx], seq[invIdx] = complementTable[seq[invIdx]], complementTable[seq[idx]]
	}
	if n&1 == 1 {
		seq[half] = complementTable[seq[half]]
	}
}

// ReverseComplementString returns the reverse complement of seq.
func ReverseComplementString(seq string) string {
	buf := make([]byte, len(seq))
	ReverseComplement(buf, []byte(seq))
	return string(buf)
}

// IsPalindrome reports whether seq equals its own reverse complement.
func IsPalindrome(seq []byte) bool {
	for idx, invIdx := 0, len(seq)-1; idx <= invIdx; idx, invIdx = idx+1, invIdx-1 {
		if seq[idx] != complementTable[seq[invIdx]] {
			return false
		}
	}
	return true
}
