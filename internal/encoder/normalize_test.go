package encoder

import (
	"image"
	"image/color"
	"testing"
)

func TestFlattenToRGBDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})
	src.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 0})

	flat := flattenToRGB(src)
	out, ok := flat.(*image.NRGBA)
	if !ok {
		t.Fatalf("flattened image is %T, want *image.NRGBA", flat)
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0xFF {
			t.Fatalf("pixel %d still carries alpha %d", i/4, out.Pix[i])
		}
	}
}

func TestFlattenToRGBHandlesPalette(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{B: 255, A: 128},
	})
	src.SetColorIndex(1, 1, 1)

	flat := flattenToRGB(src)
	if _, ok := flat.(*image.NRGBA); !ok {
		t.Fatalf("flattened image is %T, want *image.NRGBA", flat)
	}
}

func TestFlattenToRGBPassesThroughOpaqueModes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	if flattenToRGB(gray) != image.Image(gray) {
		t.Fatal("grayscale image should pass through untouched")
	}
	ycbcr := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420)
	if flattenToRGB(ycbcr) != image.Image(ycbcr) {
		t.Fatal("YCbCr image should pass through untouched")
	}
}
