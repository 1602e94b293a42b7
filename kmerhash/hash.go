package kmerhash

import (
	"encoding/binary"
	"sort"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/cespare/xxhash/v2"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/minio/highwayhash"
	"github.com/spaolacci/murmur3"
)

// HashFunc computes a seeded 64-bit hash of data. Implementations must be
// deterministic and thread safe.
type HashFunc func(data []byte, seed uint64) uint64

// XXH64 is the default HashFunc.
func XXH64(data []byte, seed uint64) uint64 {
	var d xxhash.Digest
	d.ResetWithSeed(seed)
	d.Write(data) // nolint: errcheck
	return d.Sum64()
}

// Farm hashes data with farmhash.
func Farm(data []byte, seed uint64) uint64 {
	return farm.Hash64WithSeed(data, seed)
}

// Murmur3 hashes data with the 64-bit half of murmur3-128. The seed is
// folded to 32 bits.
func Murmur3(data []byte, seed uint64) uint64 {
	return murmur3.Sum64WithSeed(data, uint32(seed)^uint32(seed>>32))
}

// highwayKey expands seed into the 32-byte key highwayhash requires.
func highwayKey(seed uint64) (key [32]byte) {
	const golden = 0x9e3779b97f4a7c15
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], seed^(golden*uint64(i+1)))
	}
	return
}

// Highway hashes data with HighwayHash-64, keyed by the seed.
func Highway(data []byte, seed uint64) uint64 {
	key := highwayKey(seed)
	return highwayhash.Sum64(data, key[:])
}

// SeaHash hashes the little-endian seed followed by data.
func SeaHash(data []byte, seed uint64) uint64 {
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	h := seahash.New()
	h.Write(s[:]) // nolint: errcheck
	h.Write(data) // nolint: errcheck
	return h.Sum64()
}

// DefaultHashName is the name of the HashFunc used when none is given.
const DefaultHashName = "xxh64"

var hashFuncs = map[string]HashFunc{
	"xxh64":   XXH64,
	"farm":    Farm,
	"murmur3": Murmur3,
	"highway": Highway,
	"seahash": SeaHash,
}

// HashByName returns the HashFunc registered under name. The empty name
// selects the default.
func HashByName(name string) (HashFunc, error) {
	if name == "" {
		name = DefaultHashName
	}
	h, ok := hashFuncs[name]
	if !ok {
		return nil, errors.E(errors.Invalid, "kmerhash: unknown hash function", name,
			"(known: "+strings.Join(HashNames(), ", ")+")")
	}
	return h, nil
}

// HashNames lists the registered hash function names in sorted order.
func HashNames() []string {
	names := make([]string, 0, len(hashFuncs))
	for name := range hashFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
