package digester

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	godigest "github.com/opencontainers/go-digest"
)

// Digest is a computed digest value. The zero value means no
// digest was computed (e.g. the input file did not exist).
type Digest struct {
	algorithm string
	sum       []byte
}

// NewDigest builds a Digest from raw sum bytes. The bytes are
// copied.
func NewDigest(algorithm string, sum []byte) Digest {
	cp := make([]byte, len(sum))
	copy(cp, sum)

	return Digest{algorithm: algorithm, sum: cp}
}

// Algorithm returns the canonical algorithm name.
func (dg Digest) Algorithm() string {
	return dg.algorithm
}

// Bytes returns a copy of the raw sum.
func (dg Digest) Bytes() []byte {
	cp := make([]byte, len(dg.sum))
	copy(cp, dg.sum)

	return cp
}

// Len returns the digest length in bytes.
func (dg Digest) Len() int {
	return len(dg.sum)
}

// IsZero reports whether no digest was computed.
func (dg Digest) IsZero() bool {
	return dg.algorithm == "" && len(dg.sum) == 0
}

// Hex renders the sum as lowercase hex, two characters per byte.
func (dg Digest) Hex() string {
	return hex.EncodeToString(dg.sum)
}

// String renders "<algorithm>:<hex>". The zero Digest renders
// as the empty string.
func (dg Digest) String() string {
	if dg.IsZero() {
		return ""
	}

	return dg.algorithm + ":" + dg.Hex()
}

// Equal reports whether both digests use the same algorithm and
// sum.
func (dg Digest) Equal(other Digest) bool {
	return dg.algorithm == other.algorithm &&
		dg.Hex() == other.Hex()
}

// OCI returns the digest in OCI content-addressable form. Only
// sha256, sha384 and sha512 have an OCI encoding.
func (dg Digest) OCI() (godigest.Digest, error) {
	od := godigest.NewDigestFromBytes(
		godigest.Algorithm(dg.algorithm), dg.sum,
	)
	if err := od.Validate(); err != nil {
		return "", &ComputationError{
			Algorithm: dg.algorithm,
			Err:       err,
		}
	}

	return od, nil
}

// Render returns the lowercase hex SHA-256 digest of message.
// The result is always 64 characters long.
func Render(message []byte) string {
	sum := sha256.Sum256(message)

	return hex.EncodeToString(sum[:])
}

// RenderNamed returns the lowercase hex digest of message using
// the named algorithm.
func RenderNamed(name string, message []byte) (string, error) {
	dg, err := Sum(name, message)
	if err != nil {
		return "", err
	}

	return dg.Hex(), nil
}

// Sum computes the digest of message using the named algorithm.
func Sum(name string, message []byte) (Digest, error) {
	al, err := Lookup(name)
	if err != nil {
		return Digest{}, err
	}

	ha := al.New()
	_, _ = ha.Write(message) //nolint:errcheck // hash.Hash writes never fail

	return Digest{algorithm: al.Name, sum: ha.Sum(nil)}, nil
}

// SumReader streams r through the named algorithm and returns
// the digest together with the number of bytes consumed. Read
// failures yield a *ComputationError and no digest.
func SumReader(name string, r io.Reader) (Digest, int64, error) {
	al, err := Lookup(name)
	if err != nil {
		return Digest{}, 0, err
	}

	ha := al.New()

	nb, err := io.Copy(ha, r)
	if err != nil {
		return Digest{}, 0, &ComputationError{
			Algorithm: al.Name,
			Err:       err,
		}
	}

	return Digest{algorithm: al.Name, sum: ha.Sum(nil)}, nb, nil
}
