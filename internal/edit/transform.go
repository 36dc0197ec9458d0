package edit

import "fmt"

// FlipAxis selects the mirror direction of a flip.
type FlipAxis string

const (
	// FlipHorizontal mirrors left to right.
	FlipHorizontal FlipAxis = "h"
	// FlipVertical mirrors top to bottom.
	FlipVertical FlipAxis = "v"
)

// Rect is a rectangle in image pixel space. X and Y are the top-left corner.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// TransformOp describes one destructive operation. Exactly one of Rotate,
// Flip or Crop is set.
type TransformOp struct {
	// Rotate is a clockwise rotation in degrees: 90, 180 or 270.
	Rotate int `json:"rotate,omitempty"`

	// Flip mirrors the image along the given axis.
	Flip FlipAxis `json:"flip,omitempty"`

	// Crop keeps only the given region.
	Crop *Rect `json:"crop,omitempty"`
}

// RotateOp returns a clockwise rotation.
func RotateOp(degrees int) TransformOp { return TransformOp{Rotate: degrees} }

// FlipOp returns a mirror operation.
func FlipOp(axis FlipAxis) TransformOp { return TransformOp{Flip: axis} }

// CropOp returns a crop to r.
func CropOp(r Rect) TransformOp { return TransformOp{Crop: &r} }

// Kind names the operation: "rotate", "flip", "crop", or "" when unset.
func (op TransformOp) Kind() string {
	switch {
	case op.Rotate != 0:
		return "rotate"
	case op.Flip != "":
		return "flip"
	case op.Crop != nil:
		return "crop"
	}
	return ""
}

// Validate checks that exactly one operation is set and that its parameters
// are acceptable.
func (op TransformOp) Validate() error {
	set := 0
	if op.Rotate != 0 {
		set++
	}
	if op.Flip != "" {
		set++
	}
	if op.Crop != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: transform needs exactly one of rotate, flip or crop", ErrInvalidParameter)
	}

	switch {
	case op.Rotate != 0:
		switch op.Rotate {
		case 90, 180, 270:
		default:
			return fmt.Errorf("%w: rotate must be 90, 180 or 270, got %d", ErrInvalidParameter, op.Rotate)
		}
	case op.Flip != "":
		if op.Flip != FlipHorizontal && op.Flip != FlipVertical {
			return fmt.Errorf("%w: flip must be %q or %q, got %q", ErrInvalidParameter, FlipHorizontal, FlipVertical, op.Flip)
		}
	case op.Crop != nil:
		if op.Crop.Empty() {
			return fmt.Errorf("%w: crop region %s is empty", ErrInvalidParameter, op.Crop)
		}
		if op.Crop.X < 0 || op.Crop.Y < 0 {
			return fmt.Errorf("%w: crop origin (%d,%d) is negative", ErrInvalidParameter, op.Crop.X, op.Crop.Y)
		}
	}
	return nil
}

func (op TransformOp) String() string {
	switch op.Kind() {
	case "rotate":
		return fmt.Sprintf("rotate(%d)", op.Rotate)
	case "flip":
		return fmt.Sprintf("flip(%s)", op.Flip)
	case "crop":
		return fmt.Sprintf("crop(%s)", op.Crop)
	}
	return "transform(none)"
}
