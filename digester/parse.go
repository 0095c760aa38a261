package digester

import (
	"encoding/hex"
	"fmt"
	"strings"

	godigest "github.com/opencontainers/go-digest"
)

// ParseDigest parses "<algorithm>:<hex>". A bare 64-character
// hex string is read as sha256. The hex part must be lowercase
// and exactly as long as the algorithm's digest.
func ParseDigest(s string) (Digest, error) {
	const errCtx = "parsing digest"

	s = strings.TrimSpace(s)

	name, encoded, found := strings.Cut(s, ":")
	if !found {
		name, encoded = SHA256, s
	}

	if oa := godigest.Algorithm(name); oa.Available() {
		od, err := godigest.Parse(name + ":" + encoded)
		if err != nil {
			return Digest{}, fmt.Errorf(
				"%s: %w: %w", errCtx, ErrMalformedDigest, err,
			)
		}

		sum, err := hex.DecodeString(od.Encoded())
		if err != nil {
			return Digest{}, fmt.Errorf(
				"%s: %w: %w", errCtx, ErrMalformedDigest, err,
			)
		}

		return Digest{algorithm: name, sum: sum}, nil
	}

	al, err := Lookup(name)
	if err != nil {
		return Digest{}, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrMalformedDigest, err,
		)
	}

	sum, err := hex.DecodeString(encoded)
	if err != nil {
		return Digest{}, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrMalformedDigest, err,
		)
	}

	if len(sum) != al.Size || hex.EncodeToString(sum) != encoded {
		return Digest{}, fmt.Errorf(
			"%s: %w: want %d lowercase hex bytes for %s, got %q",
			errCtx, ErrMalformedDigest, al.Size, al.Name, encoded,
		)
	}

	return Digest{algorithm: al.Name, sum: sum}, nil
}
