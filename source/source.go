package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Codec names a compression format applied to an input.
type Codec string

// Supported codecs.
const (
	None Codec = "none"
	Gzip Codec = "gzip"
	Zstd Codec = "zstd"
	LZ4  Codec = "lz4"
	Auto Codec = "auto"
)

// ParseCodec validates a codec name. The empty string means
// None.
func ParseCodec(name string) (Codec, error) {
	switch cd := Codec(strings.ToLower(strings.TrimSpace(name))); cd {
	case "":
		return None, nil
	case None, Gzip, Zstd, LZ4, Auto:
		return cd, nil
	default:
		return "", fmt.Errorf(
			"parsing codec: unknown codec %q (want none, gzip, zstd, lz4 or auto)",
			name,
		)
	}
}

// Detect picks a codec from the file extension.
func Detect(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".tgz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// Open opens path ("-" for stdin) and decodes it with codec.
// Auto resolves the codec from the extension; stdin under Auto
// is read as-is. Closing the result closes every layer.
func Open(path string, codec Codec) (io.ReadCloser, error) {
	const errCtx = "opening source"

	if codec == Auto {
		codec = Detect(path)
	}

	if path == Stdin {
		rc, err := Wrap(io.NopCloser(os.Stdin), codec)
		if err != nil {
			return nil, fmt.Errorf("%s: stdin: %w", errCtx, err)
		}

		return rc, nil
	}

	fi, err := os.Open(path) //nolint:gosec // paths from CLI arguments
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rc, err := Wrap(fi, codec)
	if err != nil {
		_ = fi.Close() //nolint:errcheck // best-effort close

		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return rc, nil
}

// Opener returns an Open bound to codec, suitable for batch
// digesting.
func Opener(codec Codec) func(path string) (io.ReadCloser, error) {
	return func(path string) (io.ReadCloser, error) {
		return Open(path, codec)
	}
}

// Wrap layers a decoder for codec over rc. Auto is treated as
// None because a stream has no extension to inspect.
func Wrap(rc io.ReadCloser, codec Codec) (io.ReadCloser, error) {
	const errCtx = "wrapping decoder"

	switch codec {
	case None, Auto, "":
		return rc, nil
	case Gzip:
		gr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("%s: gzip: %w", errCtx, err)
		}

		return &layered{Reader: gr, closers: []func() error{gr.Close, rc.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("%s: zstd: %w", errCtx, err)
		}

		zc := zr.IOReadCloser()

		return &layered{Reader: zc, closers: []func() error{zc.Close, rc.Close}}, nil
	case LZ4:
		return &layered{Reader: lz4.NewReader(rc), closers: []func() error{rc.Close}}, nil
	default:
		return nil, fmt.Errorf("%s: unknown codec %q", errCtx, codec)
	}
}

// layered is a decoded stream whose Close releases the decoder
// and then the underlying input.
type layered struct {
	io.Reader
	closers []func() error
}

func (la *layered) Close() error {
	var first error

	for _, cl := range la.closers {
		if err := cl(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
