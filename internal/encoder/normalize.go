package encoder

import (
	"image"
	"image/draw"
)

// flattenToRGB redraws palette, alpha-carrying, and CMYK images onto an
// opaque RGB canvas. Alpha is dropped, not composited. Images already in an
// alpha-free representation (grayscale, YCbCr) pass through untouched.
func flattenToRGB(img image.Image) image.Image {
	switch img.(type) {
	case *image.Paletted,
		*image.NRGBA, *image.NRGBA64,
		*image.RGBA, *image.RGBA64,
		*image.Alpha, *image.Alpha16,
		*image.NYCbCrA,
		*image.CMYK:
	default:
		return img
	}

	bounds := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Src)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xFF
	}
	return flat
}
