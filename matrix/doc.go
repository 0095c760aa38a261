// Package matrix provides a small fixed-size dense matrix with
// zero-initialisation and column-aligned text output.
package matrix
