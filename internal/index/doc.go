// Package index accumulates and writes the CSV index of converted images.
//
// Each row describes one file in the output tree: its stem, the fields
// parsed from the stem, its path relative to the output root (always with
// forward slashes), and the public URL derived from a base URL. Rows are
// derived deterministically from the output path, so repeated runs over the
// same tree produce the same row set.
package index
