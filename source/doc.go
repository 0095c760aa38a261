// Package source opens digest inputs. A path of "-" reads standard input;
// files can be transparently decompressed (gzip, zstd or lz4) so the digest
// covers the payload rather than its compressed container.
package source
