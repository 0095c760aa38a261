package digester

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgorithm is returned when an algorithm name is
	// not registered.
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

	// ErrMalformedDigest is returned when a digest string cannot
	// be parsed.
	ErrMalformedDigest = errors.New("malformed digest")
)

// ComputationError reports that a digest could not be computed
// for the named algorithm. No partial digest accompanies it.
type ComputationError struct {
	Algorithm string
	Err       error
}

func (ce *ComputationError) Error() string {
	return fmt.Sprintf(
		"computing %q digest: %v", ce.Algorithm, ce.Err,
	)
}

func (ce *ComputationError) Unwrap() error {
	return ce.Err
}

// ErrDigestMismatch is returned when a recomputed digest differs
// from the expected one.
var ErrDigestMismatch = errors.New("digest mismatch")
