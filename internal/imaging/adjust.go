package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// blurSigma matches a 15x15 Gaussian kernel with automatically derived sigma
// (0.3*((15-1)*0.5-1)+0.8).
const blurSigma = 2.6

// sharpenKernel boosts the center pixel against its four direct neighbours.
var sharpenKernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Render applies adjustments and then filters to img.
//
// Adjustments run in the fixed order brightness, contrast, saturation,
// sharpness; each is skipped at its neutral value. Enabled filters then run
// in edit.Filters order. The input is never modified.
//
// Parameters are expected to be valid (see edit.AdjustmentParams.Validate).
func Render(img image.Image, p edit.AdjustmentParams, filters edit.FilterSet) image.Image {
	out := img
	if v := p.Brightness - 100; v != 0 {
		out = Brightness(out, v)
	}
	if v := p.Contrast - 100; v != 0 {
		out = Contrast(out, v)
	}
	if v := p.Saturation - 100; v != 0 {
		out = Saturation(out, v)
	}
	if p.Sharpness > 0 {
		out = Sharpen(out, p.Sharpness)
	}
	for _, f := range filters.Enabled() {
		out = ApplyFilter(out, f)
	}
	return out
}

// ApplyFilter runs a single named filter. Unknown filters return img unchanged.
func ApplyFilter(img image.Image, f edit.Filter) image.Image {
	switch f {
	case edit.Grayscale:
		return imaging.Grayscale(img)
	case edit.Sepia:
		return effect.Sepia(img)
	case edit.Negative:
		return imaging.Invert(img)
	case edit.Blur:
		return imaging.Blur(img, blurSigma)
	case edit.Sobel:
		return Sobel(img)
	}
	return img
}

// Brightness adds offset (-100..100) to every color channel, clipping at 0
// and 255. Alpha is untouched.
func Brightness(img image.Image, offset int) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) + float64(offset)),
			G: clampChannel(float64(c.G) + float64(offset)),
			B: clampChannel(float64(c.B) + float64(offset)),
			A: c.A,
		}
	})
}

// Contrast stretches (value > 0) or compresses (value < 0) channel values
// around mid-gray using the factor 259(v+255) / (255(259-v)).
func Contrast(img image.Image, value int) *image.NRGBA {
	v := float64(value)
	factor := (259 * (v + 255)) / (255 * (259 - v))
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(factor*(float64(c.R)-128) + 128),
			G: clampChannel(factor*(float64(c.G)-128) + 128),
			B: clampChannel(factor*(float64(c.B)-128) + 128),
			A: c.A,
		}
	})
}

// Saturation scales the HSV saturation of every pixel by 1 + value/100, so
// -100 produces grays and 100 doubles the saturation (clipped at 1).
func Saturation(img image.Image, value int) *image.NRGBA {
	scale := 1 + float64(value)/100
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, v := src.Hsv()
		s = math.Min(math.Max(s*scale, 0), 1)
		r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})
}

// Sharpen blends a 3x3 sharpened copy of img over the original with opacity
// amount/100. An amount of 100 yields the fully sharpened image.
func Sharpen(img image.Image, amount int) *image.NRGBA {
	sharpened := imaging.Convolve3x3(img, sharpenKernel, nil)
	alpha := math.Min(math.Max(float64(amount)/100, 0), 1)
	return imaging.Overlay(img, sharpened, image.Pt(0, 0), alpha)
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
