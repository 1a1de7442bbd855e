package pipeline

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"webpmill/internal/fileutil"
	"webpmill/internal/index"
	"webpmill/internal/manifest"
)

// WebPExt is the target format's extension.
const WebPExt = ".webp"

// validExts is the accepted raster input set. WebP inputs are handled
// separately as pass-through candidates.
var validExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".gif":  {},
}

// outcome is the dispatch result for one discovered file.
type outcome struct {
	row      *index.Row
	record   *manifest.FileRecord
	counters Counters
}

// processFile runs the per-file dispatch for one discovered path. rel is the
// path relative to the input root. Files outside the accepted extension set,
// and files matching an exclude pattern, yield a zero outcome.
func (r *Runner) processFile(path, rel string) outcome {
	relPosix := filepath.ToSlash(rel)
	for _, pattern := range r.cfg.Exclude {
		if ok, err := doublestar.Match(pattern, relPosix); err == nil && ok {
			return outcome{}
		}
	}

	ext := strings.ToLower(filepath.Ext(path))

	// A native-format input with skip enabled is counted but never indexed,
	// unlike the existing-output skip below which does emit a row.
	if ext == WebPExt && r.cfg.SkipWebPInputs {
		return outcome{
			counters: Counters{Skipped: 1},
			record:   &manifest.FileRecord{Source: path, Status: manifest.StatusSkipped},
		}
	}

	if _, ok := validExts[ext]; !ok && ext != WebPExt {
		return outcome{}
	}

	outputRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + WebPExt
	dst := filepath.Join(r.cfg.OutputDir, outputRel)

	if fileutil.PathExists(dst) && !r.cfg.Overwrite {
		row := index.BuildRow(outputRel, r.cfg.BaseURL)
		return outcome{
			row:      &row,
			counters: Counters{Skipped: 1},
			record:   &manifest.FileRecord{Source: path, Destination: dst, Status: manifest.StatusSkipped},
		}
	}

	var err error
	if ext == WebPExt {
		err = fileutil.CopyFile(path, dst)
	} else {
		err = r.encode(path, dst, r.cfg.Encoder)
	}
	if err != nil {
		r.logger.Error("conversion failed",
			slog.String("source", path),
			slog.String("destination", dst),
			slog.String("error", err.Error()),
		)
		return outcome{
			counters: Counters{Errors: 1},
			record:   &manifest.FileRecord{Source: path, Destination: dst, Status: manifest.StatusError, Error: err.Error()},
		}
	}

	r.logger.Debug("converted",
		slog.String("source", path),
		slog.String("destination", dst),
	)
	row := index.BuildRow(outputRel, r.cfg.BaseURL)
	return outcome{
		row:      &row,
		counters: Counters{Converted: 1},
		record:   &manifest.FileRecord{Source: path, Destination: dst, Status: manifest.StatusConverted},
	}
}
