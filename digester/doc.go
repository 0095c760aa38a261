// Package digester computes message and file digests. Render produces the
// lowercase hex SHA-256 of a byte slice; Sum and SumReader dispatch on an
// algorithm name the way a generic digest-by-name API does, failing with a
// ComputationError when the name is unknown.
//
// File digests can be stored in companion .digest files alongside the
// original and verified later. SumFiles digests many inputs concurrently
// with a bounded worker count.
package digester
