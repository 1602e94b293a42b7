// Package kmerhash computes strand-independent hashes of DNA k-mers of
// several lengths in one pass over a sequence.
//
// A Params picks a set of window lengths and a density (1, 2 or 4 bits per
// symbol) from one of six presets. An Iterator walks a sequence one symbol at
// a time and keeps two rolling registers: the forward window and its reverse
// complement. Once a window is filled, each step emits the hash of the
// numerically smaller of the two packed values, so a k-mer and its reverse
// complement always get the same hash.
//
// Windows of up to 64 bits live in one uint64 and also expose the packed
// value itself (Iterator.Kmer). Longer windows span the two words of a Pair
// and only expose the hash.
//
// At 2-bit density, symbols other than A, C, G, T and U are skipped: the
// k-mers on both sides of an N are joined as if the N was not there. At
// 1-bit density the same holds for anything other than A, C, G, T and U. At
// 4-bit density nothing is skipped and unknown symbols match any base.
package kmerhash
