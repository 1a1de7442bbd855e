// Package logging builds slog loggers for the CLI.
//
// Two output formats are supported: a human-oriented console format used for
// interactive runs, and line-delimited JSON for machine consumption. The
// console handler keeps per-file conversion failures readable by rendering
// source/destination attributes inline after the message.
package logging
