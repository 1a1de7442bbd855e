package manifest

import "time"

// FileStatus classifies a per-file outcome.
type FileStatus string

const (
	StatusConverted FileStatus = "converted"
	StatusSkipped   FileStatus = "skipped"
	StatusError     FileStatus = "error"
)

// Run summarizes one conversion pass.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputRoot  string
	OutputRoot string
	Converted  int64
	Skipped    int64
	Errors     int64
}

// FileRecord is one counted file outcome within a run.
type FileRecord struct {
	Source      string
	Destination string
	Status      FileStatus
	Error       string
}
