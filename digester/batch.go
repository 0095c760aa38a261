package digester

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Opener opens a named input for digesting.
type Opener func(path string) (io.ReadCloser, error)

// FileDigest is the digest of one input of a batch.
type FileDigest struct {
	Path   string
	Digest Digest
	Size   int64
}

// SumFiles digests every path with at most parallelism
// concurrent workers (values below 1 mean 1). Results keep the
// order of paths. The first failure cancels outstanding work and
// is returned.
func SumFiles(
	ctx context.Context,
	open Opener,
	algorithm string,
	paths []string,
	parallelism int,
) ([]FileDigest, error) {
	const errCtx = "digesting files"

	if _, err := Lookup(algorithm); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if parallelism <= 0 {
		parallelism = 1
	}

	slog.Debug(
		"digesting files",
		"count", len(paths),
		"algorithm", algorithm,
		"parallelism", parallelism,
	)

	results := make([]FileDigest, len(paths))

	gr, gctx := errgroup.WithContext(ctx)
	gr.SetLimit(parallelism)

	for idx, pa := range paths {
		gr.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fd, err := sumOne(open, algorithm, pa)
			if err != nil {
				return err
			}

			results[idx] = fd

			return nil
		})
	}

	if err := gr.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return results, nil
}

func sumOne(
	open Opener,
	algorithm string,
	path string,
) (result FileDigest, retErr error) {
	rc, err := open(path)
	if err != nil {
		return FileDigest{}, fmt.Errorf("%s: %w", path, err)
	}

	defer func() {
		if closeErr := rc.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", path, closeErr)
		}
	}()

	dg, nb, err := SumReader(algorithm, rc)
	if err != nil {
		return FileDigest{}, fmt.Errorf("%s: %w", path, err)
	}

	return FileDigest{Path: path, Digest: dg, Size: nb}, nil
}
