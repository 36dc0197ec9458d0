package imaging

import (
	"image"
	"image/color"
	"math"
)

// Sobel replaces img with the magnitude of its luminance gradient.
//
// The result is a grayscale image (returned as NRGBA so it can flow through
// the rest of the filter chain) where bright pixels mark strong edges and
// flat regions turn black. Alpha is preserved.
//
// # Algorithm
//
//  1. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B), on the 0-255 scale
//
//  2. Gradient computation: 3x3 Sobel operators for X and Y gradients,
//     magnitude = sqrt(Gx² + Gy²)
//
//  3. Clipping: magnitudes above 255 saturate to white
//
// Unlike a full Canny detector there is no blur, thinning or thresholding,
// so soft edges show up as gray ramps rather than disappearing.
//
// Border pixels use clamped (replicated) edge values, so a uniform image
// produces an all-black result.
func Sobel(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, height)
	alpha := make([][]uint8, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		alpha[y] = make([]uint8, width)
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			gray[y][x] = 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			alpha[y][x] = c.A
		}
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
					gy += gray[py][px] * sobelY[ky+1][kx+1]
				}
			}
			v := uint8(math.Min(math.Sqrt(gx*gx+gy*gy), 255))
			result.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: alpha[y][x]})
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations and crop regions.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
