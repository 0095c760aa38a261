package digester

import (
	"crypto/md5"  //nolint:gosec // offered for checksum compatibility only
	"crypto/sha1" //nolint:gosec // offered for checksum compatibility only
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// SHA256 is the canonical name of the default algorithm.
const SHA256 = "sha256"

// Algorithm describes a registered digest algorithm.
type Algorithm struct {
	// Name is the canonical lowercase name, e.g. "sha3-256".
	Name string

	// Display is the human-readable name, e.g. "SHA3-256".
	Display string

	// Size is the digest length in bytes.
	Size int

	newHash func() hash.Hash
}

// New returns a fresh hash state for the algorithm.
func (al Algorithm) New() hash.Hash {
	return al.newHash()
}

var registry = map[string]Algorithm{}

func init() {
	register("sha256", "SHA-256", sha256.Size, sha256.New)
	register("sha224", "SHA-224", sha256.Size224, sha256.New224)
	register("sha384", "SHA-384", sha512.Size384, sha512.New384)
	register("sha512", "SHA-512", sha512.Size, sha512.New)
	register("sha512-256", "SHA-512/256", sha512.Size256, sha512.New512_256)
	register("sha1", "SHA-1", sha1.Size, sha1.New)
	register("md5", "MD5", md5.Size, md5.New)
	register("sha3-256", "SHA3-256", 32, sha3.New256)
	register("sha3-512", "SHA3-512", 64, sha3.New512)
	register("blake2b-256", "BLAKE2b-256", blake2b.Size256, unkeyed(blake2b.New256))
	register("blake2b-512", "BLAKE2b-512", blake2b.Size, unkeyed(blake2b.New512))
	register("blake2s-256", "BLAKE2s-256", blake2s.Size, unkeyed(blake2s.New256))
	register("blake3", "BLAKE3", 32, func() hash.Hash { return blake3.New() })
	register("xxh64", "XXH64", 8, func() hash.Hash { return xxhash.New() })
}

func register(
	name string,
	display string,
	size int,
	newHash func() hash.Hash,
) {
	registry[normalize(name)] = Algorithm{
		Name:    name,
		Display: display,
		Size:    size,
		newHash: newHash,
	}
}

// unkeyed adapts a keyed constructor; a nil key never fails.
func unkeyed(
	newKeyed func(key []byte) (hash.Hash, error),
) func() hash.Hash {
	return func() hash.Hash {
		ha, err := newKeyed(nil)
		if err != nil {
			panic("digester: unkeyed hash initialization failed: " + err.Error())
		}

		return ha
	}
}

// normalize folds case and drops the separators people put in
// algorithm names, so "SHA-256", "sha_256" and "sha256" match.
func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '/', ' ':
			return -1
		}

		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Lookup resolves an algorithm by name. Unknown names fail with
// a *ComputationError wrapping ErrUnknownAlgorithm.
func Lookup(name string) (Algorithm, error) {
	al, ok := registry[normalize(name)]
	if !ok {
		return Algorithm{}, &ComputationError{
			Algorithm: name,
			Err:       ErrUnknownAlgorithm,
		}
	}

	return al, nil
}

// Algorithms returns the canonical names of all registered
// algorithms, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for _, al := range registry {
		names = append(names, al.Name)
	}

	sort.Strings(names)

	return names
}
