package naming

import (
	"path/filepath"
	"strings"
)

// Fields holds the positional components parsed from a filename stem.
type Fields struct {
	Station  string
	Location string
	Angle    string
}

// Parse splits a stem on underscores and returns the first three segments.
// Missing segments come back as empty strings; segments beyond the third are
// ignored. Any input produces a result.
func Parse(stem string) Fields {
	parts := strings.Split(stem, "_")
	var f Fields
	if len(parts) > 0 {
		f.Station = parts[0]
	}
	if len(parts) > 1 {
		f.Location = parts[1]
	}
	if len(parts) > 2 {
		f.Angle = parts[2]
	}
	return f
}

// Stem returns the final path element of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
