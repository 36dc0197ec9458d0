// Package crop captures a crop rectangle from a press-drag-release gesture.
//
// Coordinates handed to a Gesture are in image pixel space. Pointer
// positions reported in screen space are converted with Geometry.ToImage,
// which scales by the ratio of the surface's pixel size to its displayed
// size.
//
// The gesture moves through these states:
//
//	Inactive --Enter--> Armed --Press--> Dragging --Release--> Released
//	Released --Press--> Dragging (start over)
//	any      --Cancel/Exit--> Inactive
//
// Dragging only updates the preview selection; nothing outside the gesture
// changes until the caller takes the final rectangle and submits it.
package crop

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/photo-editor/internal/edit"
)

var (
	// ErrNotActive reports a gesture step outside crop mode.
	ErrNotActive = errors.New("crop mode is not active")

	// ErrOutOfOrder reports a step that does not follow from the current state.
	ErrOutOfOrder = errors.New("crop gesture step out of order")

	// ErrEmptyCrop reports a selection that covers no pixels.
	ErrEmptyCrop = errors.New("crop selection is empty")
)

// State is the phase of a crop gesture.
type State int

const (
	Inactive State = iota
	Armed
	Dragging
	Released
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Released:
		return "released"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Point is a position in image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry relates a render surface's displayed box to its pixel grid.
type Geometry struct {
	// PixelWidth and PixelHeight are the surface's intrinsic pixel size,
	// which equals the displayed image's natural size.
	PixelWidth  int
	PixelHeight int

	// DisplayWidth and DisplayHeight are the on-screen size of the surface.
	DisplayWidth  float64
	DisplayHeight float64

	// OffsetX and OffsetY are the screen position of the surface's top-left corner.
	OffsetX float64
	OffsetY float64
}

// ToImage converts a screen position into image pixel space. A zero display
// size is treated as an unscaled surface.
func (g Geometry) ToImage(screenX, screenY float64) Point {
	sx, sy := 1.0, 1.0
	if g.DisplayWidth > 0 {
		sx = float64(g.PixelWidth) / g.DisplayWidth
	}
	if g.DisplayHeight > 0 {
		sy = float64(g.PixelHeight) / g.DisplayHeight
	}
	return Point{
		X: (screenX - g.OffsetX) * sx,
		Y: (screenY - g.OffsetY) * sy,
	}
}

// Selection is the raw rectangle spanned by the press and current points.
// W and H are negative when the pointer moved up or left of the press point.
type Selection struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Normalize moves the origin to the top-left corner, makes the size
// non-negative and rounds to whole pixels.
func (s Selection) Normalize() edit.Rect {
	return Normalize(Point{X: s.X, Y: s.Y}, Point{X: s.X + s.W, Y: s.Y + s.H})
}

// Normalize returns the pixel rectangle spanned by two corner points in any order.
func Normalize(a, b Point) edit.Rect {
	x0, x1 := math.Round(a.X), math.Round(b.X)
	y0, y1 := math.Round(a.Y), math.Round(b.Y)
	return edit.Rect{
		X: int(math.Min(x0, x1)),
		Y: int(math.Min(y0, y1)),
		W: int(math.Abs(x1 - x0)),
		H: int(math.Abs(y1 - y0)),
	}
}

// Clamp restricts r to a width x height image.
func Clamp(r edit.Rect, width, height int) edit.Rect {
	x0 := clampInt(r.X, 0, width)
	y0 := clampInt(r.Y, 0, height)
	x1 := clampInt(r.X+r.W, 0, width)
	y1 := clampInt(r.Y+r.H, 0, height)
	return edit.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
