// Package manifest persists conversion runs in SQLite.
//
// The Store records one row per run plus one row per counted file outcome,
// so past runs can be inspected with the runs command after the fact.
// Recording is best effort from the pipeline's point of view: a disabled or
// nil store is a no-op.
package manifest
