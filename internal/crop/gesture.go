package crop

import (
	"fmt"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// Gesture tracks one crop interaction. The zero value is Inactive.
// A Gesture is not safe for concurrent use.
type Gesture struct {
	state         State
	start, end    Point
	width, height int
}

// Enter switches into crop mode over a width x height image, discarding any
// earlier selection.
func (g *Gesture) Enter(width, height int) {
	*g = Gesture{state: Armed, width: width, height: height}
}

// Press fixes the start point. The selection is zero-sized until Drag.
func (g *Gesture) Press(p Point) error {
	switch g.state {
	case Inactive:
		return ErrNotActive
	case Dragging:
		return fmt.Errorf("%w: press while dragging", ErrOutOfOrder)
	}
	g.start, g.end = p, p
	g.state = Dragging
	return nil
}

// Drag moves the free corner and returns the preview selection.
func (g *Gesture) Drag(p Point) (Selection, error) {
	if err := g.expect(Dragging, "drag"); err != nil {
		return Selection{}, err
	}
	g.end = p
	return g.selection(), nil
}

// Release finalizes the selection and returns it normalized and clipped to
// the image.
func (g *Gesture) Release(p Point) (edit.Rect, error) {
	if err := g.expect(Dragging, "release"); err != nil {
		return edit.Rect{}, err
	}
	g.end = p
	g.state = Released
	return g.rect(), nil
}

// Rect returns the released selection, ready to submit as a crop. The
// gesture stays Released so a failed submission can be retried or cancelled.
func (g *Gesture) Rect() (edit.Rect, error) {
	if err := g.expect(Released, "confirm"); err != nil {
		return edit.Rect{}, err
	}
	r := g.rect()
	if r.Empty() {
		return edit.Rect{}, fmt.Errorf("%w: %s", ErrEmptyCrop, r)
	}
	return r, nil
}

// Confirm returns the released selection and leaves crop mode.
func (g *Gesture) Confirm() (edit.Rect, error) {
	r, err := g.Rect()
	if err != nil {
		return edit.Rect{}, err
	}
	g.Exit()
	return r, nil
}

// Cancel discards the selection and leaves crop mode.
func (g *Gesture) Cancel() { g.Exit() }

// Exit leaves crop mode.
func (g *Gesture) Exit() { *g = Gesture{} }

// State returns the current phase.
func (g *Gesture) State() State { return g.state }

// Active reports whether crop mode is on.
func (g *Gesture) Active() bool { return g.state != Inactive }

// Selection returns the raw selection while dragging or released.
func (g *Gesture) Selection() (Selection, bool) {
	if g.state != Dragging && g.state != Released {
		return Selection{}, false
	}
	return g.selection(), true
}

func (g *Gesture) selection() Selection {
	return Selection{X: g.start.X, Y: g.start.Y, W: g.end.X - g.start.X, H: g.end.Y - g.start.Y}
}

func (g *Gesture) rect() edit.Rect {
	r := Normalize(g.start, g.end)
	if g.width > 0 && g.height > 0 {
		r = Clamp(r, g.width, g.height)
	}
	return r
}

func (g *Gesture) expect(want State, step string) error {
	if g.state == Inactive {
		return ErrNotActive
	}
	if g.state != want {
		return fmt.Errorf("%w: %s while %s", ErrOutOfOrder, step, g.state)
	}
	return nil
}
