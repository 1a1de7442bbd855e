package encoder

import (
	"bytes"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"

	"webpmill/internal/fileutil"
)

// Options controls a single encode.
type Options struct {
	// Quality is the lossy quality (0-100). Ignored when Lossless is set.
	Quality int
	// Lossless selects the lossless encoding path.
	Lossless bool
	// KeepMetadata carries the source EXIF block into the output if present.
	KeepMetadata bool
	// Effort is the encoder speed/size trade-off (0-6). Passed through to
	// the codec without validation.
	Effort int
}

// Encode reads the image at src, normalizes its color mode, and writes a WebP
// file at dst, creating parent directories first. Any decode, encode, or
// write failure is returned as a single wrapped error; nothing is retried.
func Encode(src, dst string, opts Options) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	var exifData []byte
	if opts.KeepMetadata {
		exifData = rawEXIF(src)
	}

	img = flattenToRGB(img)

	encOpts := webp.Options{Method: opts.Effort}
	if opts.Lossless {
		encOpts.Lossless = true
	} else {
		encOpts.Quality = opts.Quality
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, encOpts); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}

	data := buf.Bytes()
	if len(exifData) > 0 {
		bounds := img.Bounds()
		data, err = appendEXIFChunk(data, exifData, bounds.Dx(), bounds.Dy())
		if err != nil {
			return fmt.Errorf("attach exif to %s: %w", dst, err)
		}
	}

	if err := fileutil.EnsureParentDir(dst); err != nil {
		return fmt.Errorf("create output directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
