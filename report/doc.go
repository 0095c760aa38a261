// Package report renders digest results. Text output substitutes
// single-brace {VAR} placeholders in a line format using the result fields
// and, optionally, variables loaded from Bazel workspace status files; JSON
// output emits the results as an array.
package report
