package index

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"webpmill/internal/fileutil"
	"webpmill/internal/naming"
)

// Header is the fixed CSV column set, in order.
var Header = []string{"file_stem", "station", "location", "angle", "rel_path", "url"}

// Row is one entry in the index, derived from an output file's path.
type Row struct {
	Stem     string
	Station  string
	Location string
	Angle    string
	RelPath  string
	URL      string
}

// BuildRow derives a row from an output path relative to the output root.
// outputRel may use the platform separator; the stored relative path and URL
// always use forward slashes. baseURL has any trailing slashes stripped
// before concatenation.
func BuildRow(outputRel, baseURL string) Row {
	rel := filepath.ToSlash(outputRel)
	stem := naming.Stem(outputRel)
	fields := naming.Parse(stem)
	return Row{
		Stem:     stem,
		Station:  fields.Station,
		Location: fields.Location,
		Angle:    fields.Angle,
		RelPath:  rel,
		URL:      strings.TrimRight(baseURL, "/") + "/" + rel,
	}
}

// Record returns the row as a CSV record matching Header.
func (r Row) Record() []string {
	return []string{r.Stem, r.Station, r.Location, r.Angle, r.RelPath, r.URL}
}

// WriteCSV writes the header and all rows to path, creating parent
// directories on demand. encoding/csv quoting keeps embedded commas and
// quotes round-trippable.
func WriteCSV(path string, rows []Row) error {
	if err := fileutil.EnsureParentDir(path); err != nil {
		return fmt.Errorf("ensure index directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("write index row %s: %w", row.RelPath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return file.Close()
}
