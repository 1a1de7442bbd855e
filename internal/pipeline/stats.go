package pipeline

import (
	"webpmill/internal/index"
	"webpmill/internal/manifest"
)

// Counters tracks per-run outcome totals.
type Counters struct {
	Converted int64
	Skipped   int64
	Errors    int64
}

// Seen is the number of files that entered the dispatch (ignored files are
// not counted).
func (c Counters) Seen() int64 {
	return c.Converted + c.Skipped + c.Errors
}

func (c *Counters) add(other Counters) {
	c.Converted += other.Converted
	c.Skipped += other.Skipped
	c.Errors += other.Errors
}

// Result is the complete outcome of one run.
type Result struct {
	Rows     []index.Row
	Files    []manifest.FileRecord
	Counters Counters
}

// partial is one worker's private accumulation, merged after all workers
// finish so no row is lost or duplicated.
type partial struct {
	rows     []index.Row
	files    []manifest.FileRecord
	counters Counters
}

func (p *partial) absorb(o outcome) {
	if o.row != nil {
		p.rows = append(p.rows, *o.row)
	}
	if o.record != nil {
		p.files = append(p.files, *o.record)
	}
	p.counters.add(o.counters)
}
