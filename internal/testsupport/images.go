// Package testsupport provides fixtures shared across package tests.
package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Gradient returns a small opaque RGB gradient image.
func Gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 0x80,
				A: 0xFF,
			})
		}
	}
	return img
}

// WritePNG writes a gradient PNG at path, creating parent directories.
func WritePNG(t testing.TB, path string, width, height int) {
	t.Helper()
	writeImage(t, path, width, height, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})
}

// WriteJPEG writes a gradient JPEG at path, creating parent directories.
func WriteJPEG(t testing.TB, path string, width, height int) {
	t.Helper()
	writeImage(t, path, width, height, func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	})
}

// EXIFBlock returns a minimal little-endian TIFF block: IFD0 with a single
// ASCII Make tag ("NYC"). A metadata-preserving encode should carry these
// bytes through verbatim.
func EXIFBlock() []byte {
	return []byte{
		'I', 'I', 0x2A, 0x00, // byte order + magic
		0x08, 0x00, 0x00, 0x00, // offset to IFD0
		0x01, 0x00, // one entry
		0x0F, 0x01, 0x02, 0x00, 0x04, 0x00, 0x00, 0x00, 'N', 'Y', 'C', 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
}

// WriteJPEGWithEXIF writes a gradient JPEG carrying EXIFBlock in an APP1
// segment after SOI and returns the block.
func WriteJPEGWithEXIF(t testing.TB, path string, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gradient(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	plain := buf.Bytes()

	block := EXIFBlock()
	size := 2 + 6 + len(block) // length field counts itself plus the Exif intro
	app1 := make([]byte, 0, 4+6+len(block))
	app1 = append(app1, 0xFF, 0xE1, byte(size>>8), byte(size))
	app1 = append(app1, 'E', 'x', 'i', 'f', 0x00, 0x00)
	app1 = append(app1, block...)

	out := make([]byte, 0, len(plain)+len(app1))
	out = append(out, plain[:2]...)
	out = append(out, app1...)
	out = append(out, plain[2:]...)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return block
}

// WriteCorrupt writes a file that no image codec will accept.
func WriteCorrupt(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeImage(t testing.TB, path string, width, height int, encode func(*os.File, image.Image) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, Gradient(width, height)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}
