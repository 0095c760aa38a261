package digester

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// SidecarExt is appended to a file path to name its stored
// digest.
const SidecarExt = ".digest"

// CalculateDigest streams the file at path through the named
// algorithm. Returns the zero Digest with no error if the file
// does not exist.
func CalculateDigest(
	path string,
	algorithm string,
) (result Digest, retErr error) {
	const errCtx = "calculating digest"

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Digest{}, nil
	}

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return Digest{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	dg, nb, err := SumReader(algorithm, fi)
	if err != nil {
		return Digest{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"digested file",
		"path", path,
		"size", humanize.Bytes(uint64(nb)), //nolint:gosec // byte counts are non-negative
		"digest", dg.String(),
	)

	return dg, nil
}

// GetDigest reads a stored digest from the path's sidecar file.
// Returns the zero Digest with no error if the sidecar does not
// exist.
func GetDigest(path string) (Digest, error) {
	const errCtx = "getting stored digest"

	dp := path + SidecarExt

	if _, err := os.Stat(dp); errors.Is(err, os.ErrNotExist) {
		return Digest{}, nil
	}

	raw, err := os.ReadFile(dp) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return Digest{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	dg, err := ParseDigest(string(raw))
	if err != nil {
		return Digest{}, fmt.Errorf("%s: %s: %w", errCtx, dp, err)
	}

	return dg, nil
}

// VerifyDigest recomputes the file's digest with the algorithm
// recorded in its sidecar and compares the two. A file without
// a sidecar only verifies if the file is missing too.
func VerifyDigest(path string) (bool, error) {
	const errCtx = "verifying digest"

	stored, err := GetDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	algorithm := stored.Algorithm()
	if stored.IsZero() {
		algorithm = SHA256
	}

	calc, err := CalculateDigest(path, algorithm)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if stored.IsZero() {
		return calc.IsZero(), nil
	}

	return calc.Equal(stored), nil
}

// SaveDigest calculates the digest of a file and writes it as
// "<algorithm>:<hex>" to the path's sidecar file.
func SaveDigest(path string, algorithm string) error {
	const errCtx = "saving digest"

	dg, err := CalculateDigest(path, algorithm)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if dg.IsZero() {
		return fmt.Errorf("%s: %s: %w", errCtx, path, os.ErrNotExist)
	}

	if err := WriteDigest(path, dg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// WriteDigest stores an already computed digest in the path's
// sidecar file. The zero Digest is rejected.
func WriteDigest(path string, dg Digest) error {
	const errCtx = "writing digest"

	if dg.IsZero() {
		return fmt.Errorf("%s: %s: empty digest", errCtx, path)
	}

	dp := path + SidecarExt

	if err := os.WriteFile(dp, []byte(dg.String()), 0o600); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
