package source_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/rules_conda/digester"
	"github.com/byte4ever/rules_conda/source"
)

var payload = bytes.Repeat([]byte("Hello World\n"), 1024)

func compress(tb testing.TB, codec source.Codec, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer

	var wc io.WriteCloser

	switch codec {
	case source.Gzip:
		wc = gzip.NewWriter(&buf)
	case source.Zstd:
		enc, err := zstd.NewWriter(&buf)
		require.NoError(tb, err)

		wc = enc
	case source.LZ4:
		wc = lz4.NewWriter(&buf)
	default:
		return data
	}

	_, err := wc.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, wc.Close())

	return buf.Bytes()
}

func writeFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	pa := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(pa, data, 0o600))

	return pa
}

func readAll(tb testing.TB, rc io.ReadCloser) []byte {
	tb.Helper()

	got, err := io.ReadAll(rc)
	require.NoError(tb, err)
	require.NoError(tb, rc.Close())

	return got
}

func TestOpen_decodes_each_codec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec source.Codec
		name  string
	}{
		{source.None, "plain.txt"},
		{source.Gzip, "data.gz"},
		{source.Zstd, "data.zst"},
		{source.LZ4, "data.lz4"},
	}

	for _, tt := range tests {
		t.Run(string(tt.codec), func(t *testing.T) {
			t.Parallel()

			pa := writeFile(t, tt.name, compress(t, tt.codec, payload))

			rc, err := source.Open(pa, tt.codec)
			require.NoError(t, err)

			assert.Equal(t, payload, readAll(t, rc))
		})
	}
}

func TestOpen_auto_detects_by_extension(t *testing.T) {
	t.Parallel()

	for _, codec := range []source.Codec{source.Gzip, source.Zstd, source.LZ4} {
		ext := map[source.Codec]string{
			source.Gzip: ".gz",
			source.Zstd: ".zst",
			source.LZ4:  ".lz4",
		}[codec]

		pa := writeFile(t, "data"+ext, compress(t, codec, payload))

		rc, err := source.Open(pa, source.Auto)
		require.NoError(t, err)

		assert.Equal(t, payload, readAll(t, rc), codec)
	}
}

func TestOpen_digest_covers_payload(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, "data.zst", compress(t, source.Zstd, payload))

	got, err := digester.SumFiles(
		t.Context(), source.Opener(source.Auto),
		digester.SHA256, []string{pa}, 1,
	)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, digester.Render(payload), got[0].Digest.Hex())
	assert.Equal(t, int64(len(payload)), got[0].Size)
}

func TestOpen_missing_file(t *testing.T) {
	t.Parallel()

	_, err := source.Open("/nonexistent/input", source.None)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "opening source")
}

func TestOpen_corrupt_gzip(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, "bad.gz", []byte("definitely not gzip"))

	_, err := source.Open(pa, source.Auto)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestWrap_unknown_codec(t *testing.T) {
	t.Parallel()

	_, err := source.Wrap(
		io.NopCloser(bytes.NewReader(nil)), source.Codec("brotli"),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "brotli")
}

func TestParseCodec(t *testing.T) {
	t.Parallel()

	tests := map[string]source.Codec{
		"":      source.None,
		"none":  source.None,
		"GZIP":  source.Gzip,
		" zstd": source.Zstd,
		"lz4":   source.LZ4,
		"auto":  source.Auto,
	}

	for in, want := range tests {
		got, err := source.ParseCodec(in)

		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := source.ParseCodec("bzip2")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, source.Gzip, source.Detect("pkg.tar.gz"))
	assert.Equal(t, source.Zstd, source.Detect("pkg.tar.ZST"))
	assert.Equal(t, source.LZ4, source.Detect("a/b/c.lz4"))
	assert.Equal(t, source.None, source.Detect("README"))
}
