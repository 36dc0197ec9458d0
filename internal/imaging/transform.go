package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// ApplyTransform performs one destructive operation on img.
//
// Rotation is clockwise by 90, 180 or 270 degrees. Flip mirrors around the
// vertical axis ("h") or the horizontal axis ("v"). Crop extracts op.Crop
// after clamping it to the image (see ClampCrop).
//
// Returns an error if op is not a valid single operation.
func ApplyTransform(img image.Image, op edit.TransformOp) (image.Image, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	switch op.Kind() {
	case "rotate":
		return Rotate(img, op.Rotate)
	case "flip":
		return Flip(img, op.Flip)
	case "crop":
		return Crop(img, *op.Crop), nil
	}
	return nil, fmt.Errorf("%w: unsupported transform %s", edit.ErrInvalidParameter, op)
}

// Rotate turns img clockwise by degrees (90, 180 or 270). The imaging
// package rotates counter-clockwise, hence the mirrored mapping.
func Rotate(img image.Image, degrees int) (*image.NRGBA, error) {
	switch degrees {
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	}
	return nil, fmt.Errorf("%w: rotate must be 90, 180 or 270, got %d", edit.ErrInvalidParameter, degrees)
}

// Flip mirrors img horizontally (left-right) or vertically (top-bottom).
func Flip(img image.Image, axis edit.FlipAxis) (*image.NRGBA, error) {
	switch axis {
	case edit.FlipHorizontal:
		return imaging.FlipH(img), nil
	case edit.FlipVertical:
		return imaging.FlipV(img), nil
	}
	return nil, fmt.Errorf("%w: unknown flip axis %q", edit.ErrInvalidParameter, axis)
}

// Crop extracts r from img after clamping it with ClampCrop.
func Crop(img image.Image, r edit.Rect) *image.NRGBA {
	b := img.Bounds()
	r = ClampCrop(r, b.Dx(), b.Dy())
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Add(b.Min)
	return imaging.Crop(img, rect)
}

// ClampCrop restricts r to a width x height image.
//
// The origin is moved inside the image and the size is cut to what remains,
// never below 1x1. A crop that lies entirely outside the image therefore
// yields the nearest edge pixel rather than an empty image.
func ClampCrop(r edit.Rect, width, height int) edit.Rect {
	x := clamp(r.X, 0, width-1)
	y := clamp(r.Y, 0, height-1)
	w := clamp(r.W, 1, width-x)
	h := clamp(r.H, 1, height-y)
	return edit.Rect{X: x, Y: y, W: w, H: h}
}
